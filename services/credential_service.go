package services

import (
	"CourseShelf/models"
	"CourseShelf/repositories"
	"CourseShelf/utils"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// DefaultAdminPassword seeds the credential store on first startup. It
// is surfaced to the operator through the logs, never through the API,
// and is expected to be rotated immediately.
const DefaultAdminPassword = "admin123"

// errInvalidPassword is the single rejection for every credential
// failure so a caller cannot tell a missing record from a wrong value.
var errInvalidPassword = NewError(KindUnauthorized, "Invalid password")

// CredentialService manages the singleton admin credential: lazy
// initialization, verification and rotation. Only the bcrypt hash is
// ever stored or compared.
type CredentialService struct {
	repo repositories.CredentialRepository
}

// NewCredentialService creates a new CredentialService instance.
func NewCredentialService(repo repositories.CredentialRepository) *CredentialService {
	return &CredentialService{repo: repo}
}

// Initialize creates the credential record with the default password if
// none exists. Safe to call on every startup.
func (s *CredentialService) Initialize(ctx context.Context) error {
	_, err := s.repo.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}

	hash, err := utils.HashPassword(DefaultAdminPassword)
	if err != nil {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}
	cred := &models.AdminCredential{ID: 1, PasswordHash: hash}
	if err := s.repo.Create(ctx, cred); err != nil {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}
	logrus.Warnf("Admin credential created with the default password %q; rotate it immediately", DefaultAdminPassword)
	return nil
}

// Verify checks candidate against the stored hash. A missing record and
// a wrong value are indistinguishable to the caller.
func (s *CredentialService) Verify(ctx context.Context, candidate string) error {
	cred, err := s.repo.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return errInvalidPassword
	}
	if err != nil {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}
	if !utils.ComparePassword(cred.PasswordHash, candidate) {
		return errInvalidPassword
	}
	return nil
}

// Rotate replaces the stored hash with a hash of newPassword, provided
// oldPassword verifies. The old hash is discarded irrecoverably. No
// format policy is applied to newPassword here.
func (s *CredentialService) Rotate(ctx context.Context, oldPassword, newPassword string) error {
	cred, err := s.repo.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return errInvalidPassword
	}
	if err != nil {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}
	if !utils.ComparePassword(cred.PasswordHash, oldPassword) {
		return errInvalidPassword
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}
	err = s.repo.UpdateHash(ctx, cred.ID, cred.PasswordHash, newHash)
	if errors.Is(err, repositories.ErrNotFound) {
		// Lost a race with a concurrent rotate; the old password no
		// longer matches the stored hash.
		return errInvalidPassword
	}
	if err != nil {
		return WrapError(KindStorageFault, "Failed to process request", err)
	}
	logrus.Info("Admin credential rotated")
	return nil
}
