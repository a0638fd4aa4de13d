package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/syahz/apps-be/internal/db"
	"github.com/syahz/apps-be/internal/language"
	"github.com/syahz/apps-be/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeTranslator struct {
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, title, content string, target language.Code) (service.TranslationResult, error) {
	if f.err != nil {
		return service.TranslationResult{}, f.err
	}
	return service.TranslationResult{
		Title:   fmt.Sprintf("%s %s", target, title),
		Content: content,
	}, nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestAPI(t *testing.T, translator service.Translator) *API {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	if translator == nil {
		translator = &fakeTranslator{}
	}
	return NewAPI(gdb, translator, t.TempDir(), "/uploads")
}

func seedTestCategory(t *testing.T, api *API, name string) string {
	t.Helper()
	category, err := api.categories.Create(name)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category.ID
}

func jsonRequest(t *testing.T, method, target string, payload any) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return w, c
}

func TestCreatePublicationReturnsAllVariants(t *testing.T) {
	api := setupTestAPI(t, nil)
	categoryID := seedTestCategory(t, api, "Berita Kampus")

	w, c := jsonRequest(t, http.MethodPost, "/api/admin/publications", map[string]any{
		"title":        "Peresmian Gedung Baru",
		"content":      "<p>Gedung baru dibuka.</p>",
		"type":         "news",
		"date":         "2026-03-10",
		"category_ids": []string{categoryID},
	})
	api.CreatePublication(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Data map[string]service.PublicationResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(response.Data) != len(language.Supported()) {
		t.Fatalf("expected %d variants, got %d", len(language.Supported()), len(response.Data))
	}
	if response.Data["id"].Slug != "peresmian-gedung-baru" {
		t.Fatalf("unexpected primary slug %q", response.Data["id"].Slug)
	}
}

func TestCreatePublicationValidation(t *testing.T) {
	api := setupTestAPI(t, nil)
	categoryID := seedTestCategory(t, api, "Berita Kampus")

	cases := []struct {
		name    string
		payload map[string]any
		status  int
	}{
		{
			name: "missing categories",
			payload: map[string]any{
				"title": "Judul", "content": "<p>Isi</p>", "type": "news", "date": "2026-03-10",
			},
			status: http.StatusBadRequest,
		},
		{
			name: "bad date format",
			payload: map[string]any{
				"title": "Judul", "content": "<p>Isi</p>", "type": "news", "date": "10-03-2026",
				"category_ids": []string{categoryID},
			},
			status: http.StatusBadRequest,
		},
		{
			name: "unknown type",
			payload: map[string]any{
				"title": "Judul", "content": "<p>Isi</p>", "type": "podcast", "date": "2026-03-10",
				"category_ids": []string{categoryID},
			},
			status: http.StatusBadRequest,
		},
		{
			name: "unknown category",
			payload: map[string]any{
				"title": "Judul", "content": "<p>Isi</p>", "type": "news", "date": "2026-03-10",
				"category_ids": []string{"missing-id"},
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, c := jsonRequest(t, http.MethodPost, "/api/admin/publications", tc.payload)
			api.CreatePublication(c)
			if w.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreatePublicationTranslatorFailureMapsToBadGateway(t *testing.T) {
	api := setupTestAPI(t, &fakeTranslator{
		err: &service.TranslationError{Language: language.English, Detail: "provider down"},
	})
	categoryID := seedTestCategory(t, api, "Berita Kampus")

	w, c := jsonRequest(t, http.MethodPost, "/api/admin/publications", map[string]any{
		"title":        "Judul",
		"content":      "<p>Isi</p>",
		"type":         "news",
		"date":         "2026-03-10",
		"category_ids": []string{categoryID},
	})
	api.CreatePublication(c)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetPublicationBySlugNotFound(t *testing.T) {
	api := setupTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/publications/slug/tidak-ada", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "slug", Value: "tidak-ada"}}

	api.GetPublicationBySlug(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestDeleteCategoryInUseMapsToConflict(t *testing.T) {
	api := setupTestAPI(t, nil)
	categoryID := seedTestCategory(t, api, "Berita Kampus")

	if _, err := api.publications.Create(context.Background(), service.PublicationInput{
		Title:       "Peresmian Gedung Baru",
		Content:     "<p>Isi</p>",
		Type:        "news",
		Date:        time.Now(),
		CategoryIDs: []string{categoryID},
	}); err != nil {
		t.Fatalf("seed publication: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/categories/"+categoryID, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: categoryID}}

	api.DeleteCategory(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateCategoryDuplicateMapsToConflict(t *testing.T) {
	api := setupTestAPI(t, nil)
	seedTestCategory(t, api, "Berita Kampus")

	w, c := jsonRequest(t, http.MethodPost, "/api/admin/categories", map[string]any{"name": "Berita Kampus"})
	api.CreateCategory(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}
