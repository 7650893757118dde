package repositories

import (
	"CourseShelf/models"
	"context"
	"sort"
	"sync"
	"time"
)

// MockContentRepository is an in-memory ContentRepository used by the
// service tests. It mirrors the timestamp behavior of the GORM
// implementation: Create stamps CreatedAt and UpdatedAt, Update bumps
// only UpdatedAt.
type MockContentRepository struct {
	mu    sync.Mutex
	seq   uint
	items map[uint]models.ContentItem
}

// NewMockContentRepository creates an empty in-memory repository.
func NewMockContentRepository() *MockContentRepository {
	return &MockContentRepository{items: make(map[uint]models.ContentItem)}
}

func (r *MockContentRepository) FindByKey(_ context.Context, key models.SlotKey) (*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Subject == key.Subject && item.Feature == key.Feature && item.Chapter == key.Chapter {
			copied := item
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MockContentRepository) FindByID(_ context.Context, id uint) (*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (r *MockContentRepository) ListAll(_ context.Context) ([]models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]models.ContentItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Subject != items[j].Subject {
			return items[i].Subject < items[j].Subject
		}
		if items[i].Feature != items[j].Feature {
			return items[i].Feature < items[j].Feature
		}
		return items[i].Chapter < items[j].Chapter
	})
	return items, nil
}

func (r *MockContentRepository) Create(_ context.Context, item *models.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	item.ID = r.seq
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = *item
	return nil
}

func (r *MockContentRepository) Update(_ context.Context, item *models.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return ErrNotFound
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *MockContentRepository) DeleteByID(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// MockCredentialRepository is an in-memory CredentialRepository with the
// same compare-and-swap rotate semantics as the GORM implementation.
type MockCredentialRepository struct {
	mu   sync.Mutex
	cred *models.AdminCredential
}

// NewMockCredentialRepository creates an empty in-memory repository.
func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{}
}

func (r *MockCredentialRepository) Get(_ context.Context) (*models.AdminCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cred == nil {
		return nil, ErrNotFound
	}
	copied := *r.cred
	return &copied, nil
}

func (r *MockCredentialRepository) Create(_ context.Context, cred *models.AdminCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cred.ID == 0 {
		cred.ID = 1
	}
	now := time.Now()
	cred.CreatedAt = now
	cred.UpdatedAt = now
	copied := *cred
	r.cred = &copied
	return nil
}

func (r *MockCredentialRepository) UpdateHash(_ context.Context, id uint, oldHash, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cred == nil || r.cred.ID != id || r.cred.PasswordHash != oldHash {
		return ErrNotFound
	}
	r.cred.PasswordHash = newHash
	r.cred.UpdatedAt = time.Now()
	return nil
}
