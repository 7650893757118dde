package repositories

import (
	"CourseShelf/models"
	"context"
	"errors"

	"gorm.io/gorm"
)

// CredentialRepository persists the singleton admin credential.
type CredentialRepository interface {
	Get(ctx context.Context) (*models.AdminCredential, error)
	Create(ctx context.Context, cred *models.AdminCredential) error
	// UpdateHash replaces the stored hash only if it still equals oldHash
	// (compare-and-swap, so a concurrent rotate cannot be overwritten
	// silently). ErrNotFound is returned when no row matched.
	UpdateHash(ctx context.Context, id uint, oldHash, newHash string) error
}

type credentialRepositoryImpl struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new CredentialRepository instance.
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepositoryImpl{db: db}
}

func (r *credentialRepositoryImpl) Get(ctx context.Context) (*models.AdminCredential, error) {
	var cred models.AdminCredential
	err := r.db.WithContext(ctx).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepositoryImpl) Create(ctx context.Context, cred *models.AdminCredential) error {
	return r.db.WithContext(ctx).Create(cred).Error
}

func (r *credentialRepositoryImpl) UpdateHash(ctx context.Context, id uint, oldHash, newHash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.AdminCredential{}).
		Where("id = ? AND password_hash = ?", id, oldHash).
		Update("password_hash", newHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
