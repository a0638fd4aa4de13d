package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/syahz/apps-be/internal/service"
)

const dateLayout = "2006-01-02"

type createPublicationRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Content     string   `json:"content" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	CategoryIDs []string `json:"category_ids" binding:"required,min=1"`
	BannerImage string   `json:"image"`
	OGImage     string   `json:"image_og"`
}

type updatePublicationRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=255"`
	Content     *string  `json:"content"`
	Type        *string  `json:"type"`
	Date        *string  `json:"date"`
	CategoryIDs []string `json:"category_ids"`
	BannerImage *string  `json:"image"`
	OGImage     *string  `json:"image_og"`
}

// CreatePublication stores a publication and returns every language variant.
func (a *API) CreatePublication(c *gin.Context) {
	var req createPublicationRequest
	if !bindJSON(c, &req, "Data publikasi tidak lengkap") {
		return
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
		return
	}

	bundle, err := a.publications.Create(c.Request.Context(), service.PublicationInput{
		Title:       req.Title,
		Content:     req.Content,
		Type:        req.Type,
		Date:        date,
		CategoryIDs: req.CategoryIDs,
		BannerImage: req.BannerImage,
		OGImage:     req.OGImage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Publikasi berhasil dibuat", "data": bundle})
}

// UpdatePublication applies a partial update and returns every language
// variant of the result.
func (a *API) UpdatePublication(c *gin.Context) {
	var req updatePublicationRequest
	if !bindJSON(c, &req, "Data publikasi tidak valid") {
		return
	}

	input := service.PublicationUpdateInput{
		Title:       req.Title,
		Content:     req.Content,
		Type:        req.Type,
		CategoryIDs: req.CategoryIDs,
		BannerImage: req.BannerImage,
		OGImage:     req.OGImage,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, strings.TrimSpace(*req.Date))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	bundle, err := a.publications.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Publikasi berhasil diperbarui", "data": bundle})
}

// DeletePublication removes a publication with its translations and images.
func (a *API) DeletePublication(c *gin.Context) {
	if err := a.publications.Delete(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publikasi berhasil dihapus"})
}

// GetPublication returns one publication in the requested language.
func (a *API) GetPublication(c *gin.Context) {
	response, err := a.publications.GetByID(c.Param("id"), requestLanguage(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// GetPublicationBySlug resolves a landing-page URL, falling back across
// languages when the slug belongs to another language variant.
func (a *API) GetPublicationBySlug(c *gin.Context) {
	response, err := a.publications.GetBySlug(c.Param("slug"), requestLanguage(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// ListPublications returns a paginated, searchable list in the requested
// language.
func (a *API) ListPublications(c *gin.Context) {
	page, limit := parsePagination(c)
	list, err := a.publications.List(page, limit, c.Query("search"), requestLanguage(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       list.Publications,
		"pagination": list.Pagination,
	})
}
