package handler

import (
	"github.com/syahz/apps-be/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	publications *service.PublicationService
	categories   *service.CategoryService
	guestBooks   *service.GuestBookService
	uploadDir    string
	uploadURL    string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, translator service.Translator, uploadDir, uploadURL string) *API {
	return &API{
		db:           gdb,
		publications: service.NewPublicationService(gdb, translator),
		categories:   service.NewCategoryService(gdb),
		guestBooks:   service.NewGuestBookService(gdb),
		uploadDir:    uploadDir,
		uploadURL:    uploadURL,
	}
}
