package models

import "time"

// AdminCredential is the single stored password hash gating all mutating
// operations. Exactly one row exists; it is created at startup when
// missing and replaced only by a rotate.
type AdminCredential struct {
	ID           uint      `gorm:"primaryKey"`
	PasswordHash string    `gorm:"size:128;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}
