package repositories

import (
	"CourseShelf/models"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row. Callers treat it
// as a normal negative result, not a storage fault.
var ErrNotFound = errors.New("record not found")

// ContentRepository defines the persistence operations for content items.
type ContentRepository interface {
	FindByKey(ctx context.Context, key models.SlotKey) (*models.ContentItem, error)
	FindByID(ctx context.Context, id uint) (*models.ContentItem, error)
	ListAll(ctx context.Context) ([]models.ContentItem, error)
	Create(ctx context.Context, item *models.ContentItem) error
	Update(ctx context.Context, item *models.ContentItem) error
	DeleteByID(ctx context.Context, id uint) error
}

// contentRepositoryImpl implements ContentRepository on GORM.
type contentRepositoryImpl struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository instance.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepositoryImpl{db: db}
}

func (r *contentRepositoryImpl) FindByKey(ctx context.Context, key models.SlotKey) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).
		Where("subject = ? AND feature = ? AND chapter = ?", key.Subject, key.Feature, key.Chapter).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepositoryImpl) FindByID(ctx context.Context, id uint) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepositoryImpl) ListAll(ctx context.Context) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := r.db.WithContext(ctx).
		Order("subject ASC, feature ASC, chapter ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *contentRepositoryImpl) Create(ctx context.Context, item *models.ContentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update writes the full row back. CreatedAt is carried over from the
// loaded row; GORM bumps UpdatedAt.
func (r *contentRepositoryImpl) Update(ctx context.Context, item *models.ContentItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *contentRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ContentItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
