package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/syahz/apps-be/internal/handler"
)

// Options carries the router's runtime wiring.
type Options struct {
	API           *handler.API
	SessionSecret string
	UploadDir     string
	UploadURLPath string
}

// Setup configures the Gin engine with the public and admin route groups.
func Setup(opts Options) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(opts.SessionSecret))
	r.Use(sessions.Sessions("apps_session", store))

	r.Static(opts.UploadURLPath, opts.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := opts.API

	public := r.Group("/api")
	{
		public.GET("/publications", api.ListPublications)
		public.GET("/publications/slug/:slug", api.GetPublicationBySlug)
		public.GET("/categories", api.ListAllCategories)
		public.POST("/guest-books", api.CreateGuestBookEntry)
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/publications", api.ListPublications)
			auth.GET("/publications/:id", api.GetPublication)
			auth.POST("/publications", api.CreatePublication)
			auth.PUT("/publications/:id", api.UpdatePublication)
			auth.DELETE("/publications/:id", api.DeletePublication)
			auth.POST("/publications/upload", api.UploadPublicationImages)

			auth.GET("/categories", api.ListCategories)
			auth.GET("/categories/:id", api.GetCategory)
			auth.POST("/categories", api.CreateCategory)
			auth.PUT("/categories/:id", api.UpdateCategory)
			auth.DELETE("/categories/:id", api.DeleteCategory)

			auth.GET("/guest-books", api.ListGuestBookEntries)
			auth.GET("/guest-books/:id", api.GetGuestBookEntry)
			auth.PUT("/guest-books/:id", api.UpdateGuestBookEntry)
			auth.DELETE("/guest-books/:id", api.DeleteGuestBookEntry)
			auth.POST("/guest-books/upload", api.UploadGuestBookImage)
		}
	}

	return r
}
