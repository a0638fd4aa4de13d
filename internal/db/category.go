package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a taxonomy entry for publications. Its display name is stored
// per language in CategoryTranslation rows.
type Category struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Translations []CategoryTranslation
	Publications []Publication `gorm:"many2many:publication_categories;"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategoryTranslation holds one language's name for a category.
type CategoryTranslation struct {
	ID           string `gorm:"primaryKey;size:36"`
	CategoryID   string `gorm:"size:36;not null;uniqueIndex:idx_category_translation_language"`
	LanguageCode string `gorm:"size:5;not null;uniqueIndex:idx_category_translation_language"`
	Name         string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate assigns a UUID primary key when none is set.
func (t *CategoryTranslation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
