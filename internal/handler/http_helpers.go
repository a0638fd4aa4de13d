package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/syahz/apps-be/internal/language"
	"github.com/syahz/apps-be/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// respondServiceError translates the service error taxonomy into HTTP
// statuses with Indonesian user-facing messages. Unknown errors are logged
// and reported as a generic server failure.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPublicationTypeInvalid):
		respondError(c, http.StatusBadRequest, "Tipe publikasi tidak valid")
	case errors.Is(err, service.ErrCategoryRequired):
		respondError(c, http.StatusBadRequest, "Minimal satu kategori harus dipilih")
	case errors.Is(err, service.ErrCategoryInvalid):
		respondError(c, http.StatusBadRequest, "Kategori tidak valid")
	case errors.Is(err, service.ErrCategoryNameRequired):
		respondError(c, http.StatusBadRequest, "Nama kategori tidak boleh kosong")
	case errors.Is(err, service.ErrPublicationNotFound):
		respondError(c, http.StatusNotFound, "Publikasi tidak ditemukan")
	case errors.Is(err, service.ErrTranslationMissing):
		respondError(c, http.StatusNotFound, "Terjemahan untuk bahasa ini tidak tersedia")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "Kategori tidak ditemukan")
	case errors.Is(err, service.ErrGuestBookNotFound):
		respondError(c, http.StatusNotFound, "Entri buku tamu tidak ditemukan")
	case errors.Is(err, service.ErrCategoryNameTaken):
		respondError(c, http.StatusConflict, "Nama kategori sudah digunakan")
	case errors.Is(err, service.ErrCategoryInUse):
		respondError(c, http.StatusConflict, "Kategori masih digunakan oleh publikasi")
	case errors.Is(err, service.ErrSlugConflict):
		respondError(c, http.StatusConflict, "Slug sedang diperebutkan, silakan coba lagi")
	case errors.Is(err, service.ErrTranslationFailed):
		respondError(c, http.StatusBadGateway, "Layanan penerjemahan sedang bermasalah, silakan coba lagi")
	default:
		log.Printf("[HANDLER] unexpected error: %v", err)
		respondError(c, http.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

// requestLanguage reads the lang query parameter, defaulting to the primary
// language when absent or unknown.
func requestLanguage(c *gin.Context) language.Code {
	return language.Normalize(strings.TrimSpace(c.Query("lang")))
}
