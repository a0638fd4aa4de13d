package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestBook records one visitor entry with its two captured images.
type GuestBook struct {
	ID             string `gorm:"primaryKey;size:36"`
	Name           string `gorm:"size:255;not null"`
	Origin         string `gorm:"size:255;not null"`
	Purpose        string `gorm:"type:text;not null"`
	SelfieImage    string `gorm:"size:512;not null"`
	SignatureImage string `gorm:"size:512;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BeforeCreate assigns a UUID primary key when none is set.
func (g *GuestBook) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
