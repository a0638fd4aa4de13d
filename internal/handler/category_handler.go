package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateCategory adds a category to the taxonomy.
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "Nama kategori wajib diisi") {
		return
	}

	category, err := a.categories.Create(req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Kategori berhasil dibuat", "data": category})
}

// ListCategories returns a paginated, searchable category listing.
func (a *API) ListCategories(c *gin.Context) {
	page, limit := parsePagination(c)
	list, err := a.categories.List(page, limit, c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       list.Categories,
		"pagination": list.Pagination,
	})
}

// ListAllCategories returns the full taxonomy for dropdowns.
func (a *API) ListAllCategories(c *gin.Context) {
	categories, err := a.categories.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// GetCategory returns one category by id.
func (a *API) GetCategory(c *gin.Context) {
	category, err := a.categories.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

// UpdateCategory renames a category.
func (a *API) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "Nama kategori wajib diisi") {
		return
	}

	category, err := a.categories.Update(c.Param("id"), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kategori berhasil diperbarui", "data": category})
}

// DeleteCategory removes an unused category.
func (a *API) DeleteCategory(c *gin.Context) {
	if err := a.categories.Delete(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kategori berhasil dihapus"})
}
