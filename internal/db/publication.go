package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Publication type values as persisted.
const (
	PublicationTypeNews    = "NEWS"
	PublicationTypeArticle = "ARTICLE"
)

// Publication is the language-independent record of one news item or article.
// Everything a reader actually sees lives in the per-language translations.
type Publication struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Type        string    `gorm:"size:16;not null"`
	Date        time.Time `gorm:"not null;index"`
	BannerImage *string   `gorm:"size:512"`
	OGImage     *string   `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Translations []PublicationTranslation
	Categories   []Category `gorm:"many2many:publication_categories;"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Publication) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PublicationTranslation is one language's rendering of a publication.
// At most one row exists per (publication, language); the slug is unique
// within its language partition only.
type PublicationTranslation struct {
	ID            string `gorm:"primaryKey;size:36"`
	PublicationID string `gorm:"size:36;not null;uniqueIndex:idx_translation_publication_language"`
	LanguageCode  string `gorm:"size:5;not null;uniqueIndex:idx_translation_publication_language;uniqueIndex:idx_translation_language_slug"`
	Title         string `gorm:"size:255;not null"`
	Content       string `gorm:"type:text;not null"`
	Slug          string `gorm:"size:255;not null;uniqueIndex:idx_translation_language_slug"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Publication *Publication
}

// BeforeCreate assigns a UUID primary key when none is set.
func (t *PublicationTranslation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
