package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/syahz/apps-be/internal/service"
)

type createGuestBookRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Origin         string `json:"origin" binding:"required,max=255"`
	Purpose        string `json:"purpose" binding:"required"`
	SelfieImage    string `json:"selfie_image"`
	SignatureImage string `json:"signature_image"`
}

type updateGuestBookRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=255"`
	Origin         *string `json:"origin" binding:"omitempty,max=255"`
	Purpose        *string `json:"purpose"`
	SelfieImage    *string `json:"selfie_image"`
	SignatureImage *string `json:"signature_image"`
}

// CreateGuestBookEntry records a visitor in the guest book.
func (a *API) CreateGuestBookEntry(c *gin.Context) {
	var req createGuestBookRequest
	if !bindJSON(c, &req, "Nama, asal, dan keperluan wajib diisi") {
		return
	}

	entry, err := a.guestBooks.Create(service.GuestBookInput{
		Name:           req.Name,
		Origin:         req.Origin,
		Purpose:        req.Purpose,
		SelfieImage:    req.SelfieImage,
		SignatureImage: req.SignatureImage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Entri buku tamu berhasil disimpan", "data": entry})
}

// ListGuestBookEntries returns a paginated, searchable visitor listing.
func (a *API) ListGuestBookEntries(c *gin.Context) {
	page, limit := parsePagination(c)
	list, err := a.guestBooks.List(page, limit, c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       list.Entries,
		"pagination": list.Pagination,
	})
}

// GetGuestBookEntry returns one visitor entry by id.
func (a *API) GetGuestBookEntry(c *gin.Context) {
	entry, err := a.guestBooks.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entry})
}

// UpdateGuestBookEntry applies partial changes to a visitor entry.
func (a *API) UpdateGuestBookEntry(c *gin.Context) {
	var req updateGuestBookRequest
	if !bindJSON(c, &req, "Data buku tamu tidak valid") {
		return
	}

	entry, err := a.guestBooks.Update(c.Param("id"), service.GuestBookUpdateInput{
		Name:           req.Name,
		Origin:         req.Origin,
		Purpose:        req.Purpose,
		SelfieImage:    req.SelfieImage,
		SignatureImage: req.SignatureImage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entri buku tamu berhasil diperbarui", "data": entry})
}

// DeleteGuestBookEntry removes a visitor entry and its images.
func (a *API) DeleteGuestBookEntry(c *gin.Context) {
	if err := a.guestBooks.Delete(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entri buku tamu berhasil dihapus"})
}
