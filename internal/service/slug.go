package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/syahz/apps-be/internal/db"
	"github.com/syahz/apps-be/internal/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// SlugFallback is minted when a title slugifies to nothing at all.
const SlugFallback = "publikasi"

var (
	nonWordPattern  = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	hyphenRuns      = regexp.MustCompile(`-{2,}`)
	nonSlugPattern  = regexp.MustCompile(`[^a-z0-9-]`)
	diacriticsChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify converts free text into a URL-safe slug: decompose and strip
// diacritics, drop punctuation, lowercase, collapse whitespace to single
// hyphens. Titles with no usable characters yield SlugFallback.
func Slugify(text string) string {
	normalized, _, err := transform.String(diacriticsChain, text)
	if err != nil {
		normalized = text
	}

	normalized = nonWordPattern.ReplaceAllString(normalized, "")
	slug := strings.ToLower(strings.TrimSpace(normalized))
	slug = whitespaceRuns.ReplaceAllString(slug, "-")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	slug = nonSlugPattern.ReplaceAllString(slug, "")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return SlugFallback
	}
	return slug
}

// SlugGenerator mints publication slugs that are unique within one language.
type SlugGenerator struct {
	db *gorm.DB
}

// NewSlugGenerator creates a SlugGenerator instance.
func NewSlugGenerator(gdb *gorm.DB) *SlugGenerator {
	return &SlugGenerator{db: gdb}
}

// IsTaken reports whether slug is already used by another translation in the
// given language. currentSlug marks the caller's own row so a no-op update
// never collides with itself.
func (g *SlugGenerator) IsTaken(slug string, lang language.Code, currentSlug string) (bool, error) {
	if currentSlug != "" && slug == currentSlug {
		return false, nil
	}

	var count int64
	if err := g.db.Model(&db.PublicationTranslation{}).
		Where("language_code = ? AND slug = ?", string(lang), slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Generate derives a unique slug for title within lang, appending -1, -2, …
// on collision. When the title slugifies to the bare fallback token and a
// fallbackTitle is given, the slug is derived from fallbackTitle instead, so
// a translation whose title is entirely non-Latin still gets a readable slug.
//
// The existence probe is advisory only: a concurrent writer can still take
// the slug between this check and commit. Callers treat the unique index as
// the final authority and retry on a constraint violation.
func (g *SlugGenerator) Generate(title string, lang language.Code, currentSlug, fallbackTitle string) (string, error) {
	base := Slugify(title)
	if base == SlugFallback && strings.TrimSpace(fallbackTitle) != "" {
		if fallback := Slugify(fallbackTitle); fallback != SlugFallback {
			base = fallback
		}
	}

	slug := base
	for counter := 1; ; counter++ {
		taken, err := g.IsTaken(slug, lang, currentSlug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// isUniqueViolation detects a unique-constraint failure surfaced at commit
// time by the sqlite driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
