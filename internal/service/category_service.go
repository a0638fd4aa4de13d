package service

import (
	"errors"
	"strings"

	"github.com/syahz/apps-be/internal/db"
	"github.com/syahz/apps-be/internal/language"
	"gorm.io/gorm"
)

// CategoryService manages the taxonomy publications are filed under.
// Category names are stored per language; management always writes the same
// name into every language row, translators adjust them later by hand.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// CategoryResponse is one category with its resolved display name.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryListResponse is a paginated category listing.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Pagination Pagination         `json:"pagination"`
}

// Create inserts a category, seeding every supported language with the same
// name. The name must be unique among primary-language names.
func (s *CategoryService) Create(name string) (CategoryResponse, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return CategoryResponse{}, ErrCategoryNameRequired
	}

	if err := s.assertNameUnique(trimmed, ""); err != nil {
		return CategoryResponse{}, err
	}

	category := db.Category{}
	for _, lang := range language.Supported() {
		category.Translations = append(category.Translations, db.CategoryTranslation{
			LanguageCode: string(lang),
			Name:         trimmed,
		})
	}

	if err := s.db.Create(&category).Error; err != nil {
		return CategoryResponse{}, err
	}

	return toCategoryResponse(&category, language.Primary()), nil
}

// List returns a page of categories ordered by primary-language name.
func (s *CategoryService) List(page, limit int, search string) (CategoryListResponse, error) {
	page = normalizePage(page)
	limit = normalizePerPage(limit, 10)

	countQuery := s.db.Model(&db.CategoryTranslation{}).
		Where("language_code = ?", string(language.Primary()))
	dataQuery := s.db.Model(&db.CategoryTranslation{}).
		Where("language_code = ?", string(language.Primary()))

	if trimmed := strings.TrimSpace(search); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		countQuery = countQuery.Where("lower(name) LIKE ?", like)
		dataQuery = dataQuery.Where("lower(name) LIKE ?", like)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return CategoryListResponse{}, err
	}

	var rows []db.CategoryTranslation
	if err := dataQuery.
		Order("name asc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return CategoryListResponse{}, err
	}

	categories := make([]CategoryResponse, 0, len(rows))
	for i := range rows {
		categories = append(categories, CategoryResponse{
			ID:   rows[i].CategoryID,
			Name: rows[i].Name,
		})
	}

	return CategoryListResponse{
		Categories: categories,
		Pagination: Pagination{
			TotalData: total,
			Page:      page,
			Limit:     limit,
			TotalPage: calculateTotalPages(total, limit),
		},
	}, nil
}

// ListAll returns every category ordered by primary-language name.
func (s *CategoryService) ListAll() ([]CategoryResponse, error) {
	var rows []db.CategoryTranslation
	if err := s.db.
		Where("language_code = ?", string(language.Primary())).
		Order("name asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	categories := make([]CategoryResponse, 0, len(rows))
	for i := range rows {
		categories = append(categories, CategoryResponse{
			ID:   rows[i].CategoryID,
			Name: rows[i].Name,
		})
	}
	return categories, nil
}

// Get fetches one category by id.
func (s *CategoryService) Get(id string) (CategoryResponse, error) {
	category, err := s.loadCategory(id)
	if err != nil {
		return CategoryResponse{}, err
	}
	return toCategoryResponse(category, language.Primary()), nil
}

// Update renames a category across every language row.
func (s *CategoryService) Update(id, name string) (CategoryResponse, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return CategoryResponse{}, ErrCategoryNameRequired
	}

	category, err := s.loadCategory(id)
	if err != nil {
		return CategoryResponse{}, err
	}

	if err := s.assertNameUnique(trimmed, id); err != nil {
		return CategoryResponse{}, err
	}

	byLanguage := make(map[string]*db.CategoryTranslation, len(category.Translations))
	for i := range category.Translations {
		byLanguage[category.Translations[i].LanguageCode] = &category.Translations[i]
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, lang := range language.Supported() {
			if row := byLanguage[string(lang)]; row != nil {
				if err := tx.Model(&db.CategoryTranslation{}).
					Where("id = ?", row.ID).
					Update("name", trimmed).Error; err != nil {
					return err
				}
				continue
			}

			row := db.CategoryTranslation{
				CategoryID:   id,
				LanguageCode: string(lang),
				Name:         trimmed,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CategoryResponse{}, err
	}

	updated, err := s.loadCategory(id)
	if err != nil {
		return CategoryResponse{}, err
	}
	return toCategoryResponse(updated, language.Primary()), nil
}

// Delete removes a category unless any publication still references it.
// The reference guard lives here, not in the storage schema.
func (s *CategoryService) Delete(id string) error {
	if _, err := s.loadCategory(id); err != nil {
		return err
	}

	var usage int64
	if err := s.db.Table("publication_categories").
		Where("category_id = ?", id).
		Count(&usage).Error; err != nil {
		return err
	}
	if usage > 0 {
		return ErrCategoryInUse
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&db.CategoryTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Category{}, "id = ?", id).Error
	})
}

func (s *CategoryService) loadCategory(id string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Preload("Translations").First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) assertNameUnique(name, excludeCategoryID string) error {
	query := s.db.Model(&db.CategoryTranslation{}).
		Where("language_code = ? AND name = ?", string(language.Primary()), name)
	if excludeCategoryID != "" {
		query = query.Where("category_id <> ?", excludeCategoryID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNameTaken
	}
	return nil
}

func toCategoryResponse(category *db.Category, lang language.Code) CategoryResponse {
	return CategoryResponse{
		ID:   category.ID,
		Name: resolveCategoryName(category.Translations, lang),
	}
}

// resolveCategoryName picks the requested language's name, falling back to
// the primary language and then to any available translation.
func resolveCategoryName(translations []db.CategoryTranslation, lang language.Code) string {
	for i := range translations {
		if language.Code(translations[i].LanguageCode) == lang {
			return translations[i].Name
		}
	}
	for i := range translations {
		if language.Code(translations[i].LanguageCode) == language.Primary() {
			return translations[i].Name
		}
	}
	if len(translations) > 0 {
		return translations[0].Name
	}
	return ""
}

// ensureCategoriesExist deduplicates the requested ids and verifies every
// one of them resolves to a stored category; a count mismatch means at least
// one id is invalid. The set must not be empty.
func ensureCategoriesExist(gdb *gorm.DB, ids []string) ([]db.Category, error) {
	unique := dedupeCategoryIDs(ids)
	if len(unique) == 0 {
		return nil, ErrCategoryRequired
	}

	var categories []db.Category
	if err := gdb.Where("id IN ?", unique).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(unique) {
		return nil, ErrCategoryInvalid
	}
	return categories, nil
}

func dedupeCategoryIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		unique = append(unique, trimmed)
	}
	return unique
}
