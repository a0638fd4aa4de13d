package service

import (
	"errors"
	"strings"
	"time"

	"github.com/syahz/apps-be/internal/db"
	"gorm.io/gorm"
)

// GuestBookService manages visitor log entries and their captured images.
type GuestBookService struct {
	db *gorm.DB
}

// NewGuestBookService creates a GuestBookService instance.
func NewGuestBookService(gdb *gorm.DB) *GuestBookService {
	return &GuestBookService{db: gdb}
}

// GuestBookInput carries the fields for a new visitor entry.
type GuestBookInput struct {
	Name           string
	Origin         string
	Purpose        string
	SelfieImage    string
	SignatureImage string
}

// GuestBookUpdateInput carries partial updates; nil fields keep their
// stored value.
type GuestBookUpdateInput struct {
	Name           *string
	Origin         *string
	Purpose        *string
	SelfieImage    *string
	SignatureImage *string
}

// GuestBookResponse is one visitor entry as returned by the API.
type GuestBookResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Origin         string    `json:"origin"`
	Purpose        string    `json:"purpose"`
	SelfieImage    string    `json:"selfie_image"`
	SignatureImage string    `json:"signature_image"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GuestBookListResponse is a paginated listing of visitor entries.
type GuestBookListResponse struct {
	Entries    []GuestBookResponse `json:"guest_books"`
	Pagination Pagination          `json:"pagination"`
}

// Create stores a visitor entry.
func (s *GuestBookService) Create(input GuestBookInput) (GuestBookResponse, error) {
	entry := db.GuestBook{
		Name:           strings.TrimSpace(input.Name),
		Origin:         strings.TrimSpace(input.Origin),
		Purpose:        strings.TrimSpace(input.Purpose),
		SelfieImage:    input.SelfieImage,
		SignatureImage: input.SignatureImage,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return GuestBookResponse{}, err
	}
	return toGuestBookResponse(&entry), nil
}

// List returns a page of entries, newest first, optionally filtered by a
// case-insensitive search over name, origin and purpose.
func (s *GuestBookService) List(page, limit int, search string) (GuestBookListResponse, error) {
	page = normalizePage(page)
	limit = normalizePerPage(limit, 10)

	countQuery := s.db.Model(&db.GuestBook{})
	dataQuery := s.db.Model(&db.GuestBook{})

	if trimmed := strings.TrimSpace(search); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		clause := "lower(name) LIKE ? OR lower(origin) LIKE ? OR lower(purpose) LIKE ?"
		countQuery = countQuery.Where(clause, like, like, like)
		dataQuery = dataQuery.Where(clause, like, like, like)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return GuestBookListResponse{}, err
	}

	var rows []db.GuestBook
	if err := dataQuery.
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return GuestBookListResponse{}, err
	}

	entries := make([]GuestBookResponse, 0, len(rows))
	for i := range rows {
		entries = append(entries, toGuestBookResponse(&rows[i]))
	}

	return GuestBookListResponse{
		Entries: entries,
		Pagination: Pagination{
			TotalData: total,
			Page:      page,
			Limit:     limit,
			TotalPage: calculateTotalPages(total, limit),
		},
	}, nil
}

// Get fetches one entry by id.
func (s *GuestBookService) Get(id string) (GuestBookResponse, error) {
	entry, err := s.loadEntry(id)
	if err != nil {
		return GuestBookResponse{}, err
	}
	return toGuestBookResponse(entry), nil
}

// Update applies partial changes to an entry. Replaced images are removed
// from storage after the row is saved.
func (s *GuestBookService) Update(id string, input GuestBookUpdateInput) (GuestBookResponse, error) {
	entry, err := s.loadEntry(id)
	if err != nil {
		return GuestBookResponse{}, err
	}

	updates := map[string]interface{}{}
	var replaced []string

	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Origin != nil {
		updates["origin"] = strings.TrimSpace(*input.Origin)
	}
	if input.Purpose != nil {
		updates["purpose"] = strings.TrimSpace(*input.Purpose)
	}
	if input.SelfieImage != nil {
		updates["selfie_image"] = *input.SelfieImage
		if entry.SelfieImage != "" && entry.SelfieImage != *input.SelfieImage {
			replaced = append(replaced, entry.SelfieImage)
		}
	}
	if input.SignatureImage != nil {
		updates["signature_image"] = *input.SignatureImage
		if entry.SignatureImage != "" && entry.SignatureImage != *input.SignatureImage {
			replaced = append(replaced, entry.SignatureImage)
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&db.GuestBook{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return GuestBookResponse{}, err
		}
	}

	deleteImageFiles(replaced...)

	updated, err := s.loadEntry(id)
	if err != nil {
		return GuestBookResponse{}, err
	}
	return toGuestBookResponse(updated), nil
}

// Delete removes an entry and its stored images.
func (s *GuestBookService) Delete(id string) error {
	entry, err := s.loadEntry(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&db.GuestBook{}, "id = ?", id).Error; err != nil {
		return err
	}

	deleteImageFiles(entry.SelfieImage, entry.SignatureImage)
	return nil
}

func (s *GuestBookService) loadEntry(id string) (*db.GuestBook, error) {
	var entry db.GuestBook
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestBookNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func toGuestBookResponse(entry *db.GuestBook) GuestBookResponse {
	return GuestBookResponse{
		ID:             entry.ID,
		Name:           entry.Name,
		Origin:         entry.Origin,
		Purpose:        entry.Purpose,
		SelfieImage:    entry.SelfieImage,
		SignatureImage: entry.SignatureImage,
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
	}
}
