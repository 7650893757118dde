package services

import (
	"CourseShelf/models"
	"CourseShelf/repositories"
	"CourseShelf/storage"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// ContentService is the content-slot store. Each slot key holds at most
// one item; resubmitting content replaces it in place. Mutations on the
// same key are serialized, and a superseded blob is removed only after
// the metadata write has succeeded.
type ContentService struct {
	repo  repositories.ContentRepository
	blobs storage.Storage
	locks *keyLock
}

// NewContentService creates a new ContentService instance.
func NewContentService(repo repositories.ContentRepository, blobs storage.Storage) *ContentService {
	return &ContentService{
		repo:  repo,
		blobs: blobs,
		locks: newKeyLock(),
	}
}

func validateKey(key models.SlotKey) error {
	if strings.TrimSpace(key.Subject) == "" {
		return NewError(KindValidation, "subject is required")
	}
	if strings.TrimSpace(key.Feature) == "" {
		return NewError(KindValidation, "feature is required")
	}
	return nil
}

// PutFile inserts or replaces the item at key with a reference to
// blobName, which must already be durably stored. The resulting item is
// returned. If the slot previously referenced a different blob, that
// blob is removed after the row is written.
func (s *ContentService) PutFile(ctx context.Context, key models.SlotKey, blobName string) (*models.ContentItem, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if blobName == "" {
		return nil, NewError(KindValidation, "file reference is required")
	}
	ok, err := s.blobs.Exists(blobName)
	if err != nil {
		return nil, WrapError(KindStorageFault, "Failed to process request", err)
	}
	if !ok {
		return nil, NewError(KindValidation, "uploaded file is missing from storage")
	}
	return s.put(ctx, key, models.ContentTypeFile, &blobName, nil)
}

// PutText inserts or replaces the item at key with an inline text blob.
// Empty text is valid content. A previously referenced file blob is
// removed after the row is written.
func (s *ContentService) PutText(ctx context.Context, key models.SlotKey, text string) (*models.ContentItem, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return s.put(ctx, key, models.ContentTypeText, nil, &text)
}

// put holds the per-key lock across read, write and cleanup scheduling
// so two writers on the same slot can never both commit.
func (s *ContentService) put(ctx context.Context, key models.SlotKey, contentType string, filePath, text *string) (*models.ContentItem, error) {
	unlock := s.locks.acquire(key.String())
	defer unlock()

	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, WrapError(KindStorageFault, "Failed to process request", err)
	}

	if existing == nil {
		item := &models.ContentItem{
			Subject:  key.Subject,
			Feature:  key.Feature,
			Chapter:  key.Chapter,
			Type:     contentType,
			FilePath: filePath,
			Text:     text,
		}
		if err := s.repo.Create(ctx, item); err != nil {
			return nil, WrapError(KindStorageFault, "Failed to process request", err)
		}
		logrus.WithFields(logrus.Fields{
			"slot": key.String(),
			"type": contentType,
		}).Info("Content created")
		return item, nil
	}

	// Remember the blob to retire, but never touch it before the row
	// update has succeeded.
	staleBlob := ""
	if existing.Type == models.ContentTypeFile && existing.FilePath != nil {
		if filePath == nil || *existing.FilePath != *filePath {
			staleBlob = *existing.FilePath
		}
	}

	existing.Type = contentType
	existing.FilePath = filePath
	existing.Text = text
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, WrapError(KindStorageFault, "Failed to process request", err)
	}

	if staleBlob != "" {
		s.removeBlob(staleBlob)
	}
	logrus.WithFields(logrus.Fields{
		"slot": key.String(),
		"type": contentType,
	}).Info("Content replaced")
	return existing, nil
}

// Get returns the item at key, exact match only.
func (s *ContentService) Get(ctx context.Context, key models.SlotKey) (*models.ContentItem, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByKey(ctx, key)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NewError(KindNotFound, "No content found")
	}
	if err != nil {
		return nil, WrapError(KindStorageFault, "Failed to process request", err)
	}
	return item, nil
}

// ListAll returns every item ordered by subject, feature, chapter
// ascending.
func (s *ContentService) ListAll(ctx context.Context) ([]models.ContentItem, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, WrapError(KindStorageFault, "Failed to process request", err)
	}
	return items, nil
}

// Delete removes the item with the given id. The metadata row goes
// first; a file blob is removed afterwards, best-effort, so a failed
// delete never leaves a row pointing at a missing blob.
func (s *ContentService) Delete(ctx context.Context, id uint) error {
	item, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return NewError(KindNotFound, "No content found")
	}
	if err != nil {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}

	unlock := s.locks.acquire(item.Key().String())
	defer unlock()

	// Re-read under the lock; a concurrent replace may have changed the
	// blob reference since the first lookup.
	item, err = s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return NewError(KindNotFound, "No content found")
	}
	if err != nil {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewError(KindNotFound, "No content found")
		}
		return WrapError(KindStorageFault, "Failed to process request", err)
	}

	if item.Type == models.ContentTypeFile && item.FilePath != nil {
		s.removeBlob(*item.FilePath)
	}
	logrus.WithFields(logrus.Fields{
		"slot": item.Key().String(),
		"id":   id,
	}).Info("Content deleted")
	return nil
}

// removeBlob retires a blob that no row references anymore. Failures are
// logged, never returned: the metadata is already consistent and the
// orphan sweep will pick up the residue.
func (s *ContentService) removeBlob(name string) {
	if err := s.blobs.Delete(name); err != nil {
		logrus.WithFields(logrus.Fields{
			"blob":  name,
			"error": err,
		}).Warn("Failed to remove superseded blob")
	}
}
