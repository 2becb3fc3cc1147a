package models

import (
	"time"

	"gorm.io/gorm"

	"spendlog/internal/uuid"
)

// Base holds the identity and timestamps shared by ledger rows. CreatedAt
// is the spend time that reporting windows are evaluated against.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUIDv7 and keeps a caller-supplied CreatedAt,
// stored in UTC.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return nil
}
