package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/syahz/apps-be/internal/db"
	"github.com/syahz/apps-be/internal/language"
	"gorm.io/gorm"
)

// maxCommitAttempts bounds the slug-conflict retry loop. The advisory slug
// pre-check can lose a race against a concurrent writer; the unique index is
// the final authority and each retry re-derives slugs against committed rows.
const maxCommitAttempts = 3

// PublicationService keeps one logical publication consistent across every
// configured language: it validates categories, obtains missing-language
// content from the translator, mints per-language slugs and commits all
// variants as one atomic unit.
type PublicationService struct {
	db         *gorm.DB
	translator Translator
	slugs      *SlugGenerator
	sanitizer  *bluemonday.Policy
}

// NewPublicationService creates a PublicationService instance.
func NewPublicationService(gdb *gorm.DB, translator Translator) *PublicationService {
	return &PublicationService{
		db:         gdb,
		translator: translator,
		slugs:      NewSlugGenerator(gdb),
		sanitizer:  bluemonday.UGCPolicy(),
	}
}

// PublicationInput represents fields accepted when creating a publication.
// Title and Content are authored in the primary language.
type PublicationInput struct {
	Title       string
	Content     string
	Type        string
	Date        time.Time
	CategoryIDs []string
	BannerImage string
	OGImage     string
}

// PublicationUpdateInput carries partial updates; nil fields keep their
// prior values.
type PublicationUpdateInput struct {
	Title       *string
	Content     *string
	Type        *string
	Date        *time.Time
	CategoryIDs []string
	BannerImage *string
	OGImage     *string
}

// CategoryRef names one category in the requested language.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pagination mirrors the wire shape expected by the frontend.
type Pagination struct {
	TotalData int64 `json:"totalData"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	TotalPage int   `json:"totalPage"`
}

// PublicationResponse is one language's rendering of a publication.
type PublicationResponse struct {
	ID         string             `json:"id"`
	Slug       string             `json:"slug"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	Type       string             `json:"type"`
	Date       time.Time          `json:"date"`
	Image      *string            `json:"image"`
	ImageOG    *string            `json:"image_og"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Language   string             `json:"language"`
	Categories []CategoryRef      `json:"categories"`
	SlugMap    map[string]*string `json:"slug_map"`
}

// PublicationListResponse is a paginated list in one language.
type PublicationListResponse struct {
	Publications []PublicationResponse `json:"publications"`
	Pagination   Pagination            `json:"pagination"`
}

// PublicationBundle maps each language code to its response after a write.
type PublicationBundle map[language.Code]PublicationResponse

// Create validates the category set, translates the primary-language draft
// into every secondary language, mints per-language slugs and commits the
// publication with all translations and category links atomically. Any
// translation failure aborts before anything is persisted.
func (s *PublicationService) Create(ctx context.Context, input PublicationInput) (PublicationBundle, error) {
	pubType, err := normalizePublicationType(input.Type)
	if err != nil {
		return nil, err
	}

	categories, err := ensureCategoriesExist(s.db, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	content := s.sanitizer.Sanitize(input.Content)

	texts := map[language.Code]TranslationResult{
		language.Primary(): {Title: title, Content: content},
	}
	for _, lang := range language.Secondary() {
		translated, err := s.translator.Translate(ctx, title, content, lang)
		if err != nil {
			return nil, err
		}
		texts[lang] = translated
	}

	var publicationID string
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		slugs, err := s.mintSlugs(texts, nil, title)
		if err != nil {
			return nil, err
		}

		publication := db.Publication{
			Type:        pubType,
			Date:        input.Date,
			BannerImage: optionalString(input.BannerImage),
			OGImage:     optionalString(input.OGImage),
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&publication).Error; err != nil {
				return err
			}

			for _, lang := range language.Supported() {
				text, ok := texts[lang]
				if !ok {
					continue
				}
				row := db.PublicationTranslation{
					PublicationID: publication.ID,
					LanguageCode:  string(lang),
					Title:         text.Title,
					Content:       text.Content,
					Slug:          slugs[lang],
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}

			return tx.Model(&publication).Association("Categories").Replace(categories)
		})
		if err == nil {
			publicationID = publication.ID
			break
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}

	if publicationID == "" {
		return nil, ErrSlugConflict
	}

	return s.loadBundle(publicationID)
}

// Update applies a partial update. Translation rows are rewritten only when
// title or content changed; otherwise existing translations are reused
// verbatim, except that a language missing its row entirely is backfilled.
// Replaced image files are deleted only after the commit succeeds.
func (s *PublicationService) Update(ctx context.Context, id string, input PublicationUpdateInput) (PublicationBundle, error) {
	existing, err := s.loadPublication(id)
	if err != nil {
		return nil, err
	}

	var categories []db.Category
	if input.CategoryIDs != nil {
		categories, err = ensureCategoriesExist(s.db, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
	}

	pubType := existing.Type
	if input.Type != nil {
		pubType, err = normalizePublicationType(*input.Type)
		if err != nil {
			return nil, err
		}
	}

	date := existing.Date
	if input.Date != nil {
		date = *input.Date
	}

	banner := existing.BannerImage
	if input.BannerImage != nil {
		banner = optionalString(*input.BannerImage)
	}
	ogImage := existing.OGImage
	if input.OGImage != nil {
		ogImage = optionalString(*input.OGImage)
	}
	hasNewUpload := input.BannerImage != nil && input.OGImage != nil

	byLanguage := indexTranslations(existing.Translations)
	primary := byLanguage[language.Primary()]

	newTitle := ""
	newContent := ""
	if primary != nil {
		newTitle = primary.Title
		newContent = primary.Content
	}
	if input.Title != nil {
		newTitle = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		newContent = s.sanitizer.Sanitize(*input.Content)
	}

	contentChanged := input.Title != nil || input.Content != nil

	freshTexts := make(map[language.Code]TranslationResult)
	if contentChanged || primary == nil {
		freshTexts[language.Primary()] = TranslationResult{Title: newTitle, Content: newContent}
	}
	for _, lang := range language.Secondary() {
		if !contentChanged && byLanguage[lang] != nil {
			continue
		}
		translated, err := s.translator.Translate(ctx, newTitle, newContent, lang)
		if err != nil {
			return nil, err
		}
		freshTexts[lang] = translated
	}

	currentSlugs := make(map[language.Code]string, len(byLanguage))
	for lang, row := range byLanguage {
		currentSlugs[lang] = row.Slug
	}

	committed := false
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		slugs, err := s.mintSlugs(freshTexts, currentSlugs, newTitle)
		if err != nil {
			return nil, err
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"type":         pubType,
				"date":         date,
				"banner_image": banner,
				"og_image":     ogImage,
			}
			if err := tx.Model(&db.Publication{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}

			for _, lang := range language.Supported() {
				text, ok := freshTexts[lang]
				if !ok {
					continue
				}
				if row := byLanguage[lang]; row != nil {
					if err := tx.Model(&db.PublicationTranslation{}).
						Where("id = ?", row.ID).
						Updates(map[string]interface{}{
							"title":   text.Title,
							"content": text.Content,
							"slug":    slugs[lang],
						}).Error; err != nil {
						return err
					}
					continue
				}

				row := db.PublicationTranslation{
					PublicationID: id,
					LanguageCode:  string(lang),
					Title:         text.Title,
					Content:       text.Content,
					Slug:          slugs[lang],
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}

			if categories != nil {
				publication := db.Publication{ID: id}
				return tx.Model(&publication).Association("Categories").Replace(categories)
			}
			return nil
		})
		if err == nil {
			committed = true
			break
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}

	if !committed {
		return nil, ErrSlugConflict
	}

	if hasNewUpload {
		deleteImageFiles(derefOrEmpty(existing.BannerImage), derefOrEmpty(existing.OGImage))
	}

	return s.loadBundle(id)
}

// Delete removes the publication with its translations and category links,
// then best-effort deletes the two referenced image files.
func (s *PublicationService) Delete(id string) error {
	publication, err := s.loadPublication(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publication_id = ?", id).Delete(&db.PublicationTranslation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(publication).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&db.Publication{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	deleteImageFiles(derefOrEmpty(publication.BannerImage), derefOrEmpty(publication.OGImage))
	return nil
}

// GetByID returns the requested language's rendering, distinguishing a
// missing publication from a missing translation.
func (s *PublicationService) GetByID(id string, lang language.Code) (PublicationResponse, error) {
	publication, err := s.loadPublication(id)
	if err != nil {
		return PublicationResponse{}, err
	}

	slugMap := buildSlugMap(publication.Translations)
	for i := range publication.Translations {
		if language.Code(publication.Translations[i].LanguageCode) == lang {
			return s.toResponse(publication, &publication.Translations[i], lang, slugMap), nil
		}
	}

	return PublicationResponse{}, &TranslationMissingError{PublicationID: id, Language: lang}
}

// GetBySlug resolves a landing-page URL. An exact (slug, language) match
// wins; otherwise the slug is searched across all languages to find the
// parent publication, whose requested-language translation is then returned.
// An old URL in one language therefore still resolves after a language
// switch.
func (s *PublicationService) GetBySlug(slug string, lang language.Code) (PublicationResponse, error) {
	var row db.PublicationTranslation
	err := s.db.Where("slug = ? AND language_code = ?", slug, string(lang)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.Where("slug = ?", slug).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PublicationResponse{}, ErrPublicationNotFound
		}
	}
	if err != nil {
		return PublicationResponse{}, err
	}

	return s.GetByID(row.PublicationID, lang)
}

// List returns a page of publications in the requested language, newest
// date first, optionally filtered by a title substring.
func (s *PublicationService) List(page, limit int, search string, lang language.Code) (PublicationListResponse, error) {
	page = normalizePage(page)
	limit = normalizePerPage(limit, 10)

	countQuery := s.db.Model(&db.PublicationTranslation{}).
		Where("publication_translations.language_code = ?", string(lang))
	dataQuery := s.db.Model(&db.PublicationTranslation{}).
		Where("publication_translations.language_code = ?", string(lang))

	if trimmed := strings.TrimSpace(search); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		countQuery = countQuery.Where("lower(publication_translations.title) LIKE ?", like)
		dataQuery = dataQuery.Where("lower(publication_translations.title) LIKE ?", like)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return PublicationListResponse{}, err
	}

	var rows []db.PublicationTranslation
	if err := dataQuery.
		Joins("JOIN publications ON publications.id = publication_translations.publication_id").
		Order("publications.date desc").
		Limit(limit).
		Offset((page-1)*limit).
		Preload("Publication.Translations").
		Preload("Publication.Categories.Translations").
		Find(&rows).Error; err != nil {
		return PublicationListResponse{}, err
	}

	publications := make([]PublicationResponse, 0, len(rows))
	for i := range rows {
		publication := rows[i].Publication
		if publication == nil {
			continue
		}
		slugMap := buildSlugMap(publication.Translations)
		publications = append(publications, s.toResponse(publication, &rows[i], lang, slugMap))
	}

	return PublicationListResponse{
		Publications: publications,
		Pagination: Pagination{
			TotalData: total,
			Page:      page,
			Limit:     limit,
			TotalPage: calculateTotalPages(total, limit),
		},
	}, nil
}

func (s *PublicationService) loadPublication(id string) (*db.Publication, error) {
	var publication db.Publication
	if err := s.db.
		Preload("Translations").
		Preload("Categories.Translations").
		First(&publication, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublicationNotFound
		}
		return nil, err
	}
	return &publication, nil
}

func (s *PublicationService) loadBundle(id string) (PublicationBundle, error) {
	publication, err := s.loadPublication(id)
	if err != nil {
		return nil, err
	}

	slugMap := buildSlugMap(publication.Translations)
	bundle := make(PublicationBundle, len(publication.Translations))
	for i := range publication.Translations {
		row := &publication.Translations[i]
		lang := language.Code(row.LanguageCode)
		bundle[lang] = s.toResponse(publication, row, lang, slugMap)
	}
	return bundle, nil
}

// mintSlugs derives a slug for every language present in texts. Secondary
// languages fall back to the primary title when their translated title
// slugifies to nothing usable; current carries each language's existing slug
// so unchanged titles keep their URL.
func (s *PublicationService) mintSlugs(texts map[language.Code]TranslationResult, current map[language.Code]string, primaryTitle string) (map[language.Code]string, error) {
	slugs := make(map[language.Code]string, len(texts))
	for _, lang := range language.Supported() {
		text, ok := texts[lang]
		if !ok {
			continue
		}

		fallbackTitle := ""
		if lang != language.Primary() {
			fallbackTitle = primaryTitle
		}

		slug, err := s.slugs.Generate(text.Title, lang, current[lang], fallbackTitle)
		if err != nil {
			return nil, err
		}
		slugs[lang] = slug
	}
	return slugs, nil
}

func (s *PublicationService) toResponse(publication *db.Publication, row *db.PublicationTranslation, lang language.Code, slugMap map[string]*string) PublicationResponse {
	categories := make([]CategoryRef, 0, len(publication.Categories))
	for i := range publication.Categories {
		category := &publication.Categories[i]
		categories = append(categories, CategoryRef{
			ID:   category.ID,
			Name: resolveCategoryName(category.Translations, lang),
		})
	}

	return PublicationResponse{
		ID:         publication.ID,
		Slug:       row.Slug,
		Title:      row.Title,
		Content:    row.Content,
		Type:       publicationTypeResponse(publication.Type),
		Date:       publication.Date,
		Image:      publication.BannerImage,
		ImageOG:    publication.OGImage,
		CreatedAt:  publication.CreatedAt,
		UpdatedAt:  publication.UpdatedAt,
		Language:   string(lang),
		Categories: categories,
		SlugMap:    slugMap,
	}
}

// buildSlugMap exposes each sibling slug per language so clients can render
// language-switch links without extra lookups. A language with no
// translation inherits the nearest earlier language's slug in the
// configured order, so a missing Chinese slug falls back to English, which
// falls back to the primary slug.
func buildSlugMap(translations []db.PublicationTranslation) map[string]*string {
	slugMap := make(map[string]*string, len(language.Supported()))
	for _, lang := range language.Supported() {
		slugMap[string(lang)] = nil
	}

	for i := range translations {
		lang := language.Code(translations[i].LanguageCode)
		if !language.IsSupported(lang) {
			continue
		}
		slug := translations[i].Slug
		slugMap[string(lang)] = &slug
	}

	var previous *string
	for _, lang := range language.Supported() {
		if slugMap[string(lang)] == nil {
			slugMap[string(lang)] = previous
			continue
		}
		previous = slugMap[string(lang)]
	}

	return slugMap
}

func indexTranslations(translations []db.PublicationTranslation) map[language.Code]*db.PublicationTranslation {
	byLanguage := make(map[language.Code]*db.PublicationTranslation, len(translations))
	for i := range translations {
		byLanguage[language.Code(translations[i].LanguageCode)] = &translations[i]
	}
	return byLanguage
}

func normalizePublicationType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "news":
		return db.PublicationTypeNews, nil
	case "article":
		return db.PublicationTypeArticle, nil
	default:
		return "", ErrPublicationTypeInvalid
	}
}

func publicationTypeResponse(stored string) string {
	if stored == db.PublicationTypeNews {
		return "news"
	}
	return "article"
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
