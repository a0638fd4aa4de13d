package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/syahz/apps-be/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGuestBookTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:guestbook-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.GuestBook{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func TestGuestBookServiceCreateAndGet(t *testing.T) {
	gdb := setupGuestBookTestDB(t)
	svc := NewGuestBookService(gdb)

	created, err := svc.Create(GuestBookInput{
		Name:           "  Budi Santoso ",
		Origin:         "Universitas Indonesia",
		Purpose:        "Studi banding",
		SelfieImage:    "uploads/guest-selfie.jpg",
		SignatureImage: "uploads/guest-signature.png",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Budi Santoso" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}

	fetched, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Origin != "Universitas Indonesia" || fetched.SelfieImage != "uploads/guest-selfie.jpg" {
		t.Fatalf("unexpected entry: %#v", fetched)
	}

	if _, err := svc.Get("missing-id"); !errors.Is(err, ErrGuestBookNotFound) {
		t.Fatalf("expected ErrGuestBookNotFound, got %v", err)
	}
}

func TestGuestBookServiceListSearchesCaseInsensitively(t *testing.T) {
	gdb := setupGuestBookTestDB(t)
	svc := NewGuestBookService(gdb)

	entries := []GuestBookInput{
		{Name: "Budi Santoso", Origin: "Universitas Indonesia", Purpose: "Studi banding"},
		{Name: "Siti Rahma", Origin: "Pemkot Bandung", Purpose: "Kunjungan kerja"},
		{Name: "Agus Wijaya", Origin: "SMA Negeri 1", Purpose: "studi lapangan"},
	}
	for _, input := range entries {
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("create %q: %v", input.Name, err)
		}
	}

	list, err := svc.List(1, 10, "STUDI")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Pagination.TotalData != 2 {
		t.Fatalf("expected 2 matches across purpose, got %d", list.Pagination.TotalData)
	}

	byOrigin, err := svc.List(1, 10, "bandung")
	if err != nil {
		t.Fatalf("list by origin: %v", err)
	}
	if len(byOrigin.Entries) != 1 || byOrigin.Entries[0].Name != "Siti Rahma" {
		t.Fatalf("unexpected origin match: %#v", byOrigin.Entries)
	}

	all, err := svc.List(1, 2, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.Pagination.TotalData != 3 || all.Pagination.TotalPage != 2 {
		t.Fatalf("unexpected pagination: %#v", all.Pagination)
	}
	if len(all.Entries) != 2 {
		t.Fatalf("expected 2 rows on page 1, got %d", len(all.Entries))
	}
}

func TestGuestBookServiceUpdateAppliesPartialChanges(t *testing.T) {
	gdb := setupGuestBookTestDB(t)
	svc := NewGuestBookService(gdb)

	created, err := svc.Create(GuestBookInput{
		Name:        "Budi Santoso",
		Origin:      "Universitas Indonesia",
		Purpose:     "Studi banding",
		SelfieImage: "uploads/guest-old-selfie.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPurpose := "Penandatanganan kerja sama"
	newSelfie := "uploads/guest-new-selfie.jpg"
	updated, err := svc.Update(created.ID, GuestBookUpdateInput{
		Purpose:     &newPurpose,
		SelfieImage: &newSelfie,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Purpose != newPurpose {
		t.Fatalf("purpose = %q", updated.Purpose)
	}
	if updated.SelfieImage != newSelfie {
		t.Fatalf("selfie = %q", updated.SelfieImage)
	}
	if updated.Name != "Budi Santoso" || updated.Origin != "Universitas Indonesia" {
		t.Fatalf("untouched fields changed: %#v", updated)
	}

	if _, err := svc.Update("missing-id", GuestBookUpdateInput{Purpose: &newPurpose}); !errors.Is(err, ErrGuestBookNotFound) {
		t.Fatalf("expected ErrGuestBookNotFound, got %v", err)
	}
}

func TestGuestBookServiceUpdateDeletesReplacedImage(t *testing.T) {
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
	gdb := setupGuestBookTestDB(t)
	svc := NewGuestBookService(gdb)

	if err := os.MkdirAll("uploads", 0o755); err != nil {
		t.Fatalf("create upload dir: %v", err)
	}
	oldPath := filepath.Join("uploads", "guest-old-selfie.jpg")
	if err := os.WriteFile(oldPath, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	created, err := svc.Create(GuestBookInput{
		Name:        "Budi Santoso",
		Origin:      "UI",
		Purpose:     "Studi banding",
		SelfieImage: "/" + oldPath,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newSelfie := "/uploads/guest-new-selfie.jpg"
	if _, err := svc.Update(created.ID, GuestBookUpdateInput{SelfieImage: &newSelfie}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := os.Stat(oldPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("replaced image should be deleted, stat err = %v", err)
	}
}

func TestGuestBookServiceDelete(t *testing.T) {
	gdb := setupGuestBookTestDB(t)
	svc := NewGuestBookService(gdb)

	created, err := svc.Create(GuestBookInput{Name: "Budi Santoso", Origin: "UI", Purpose: "Studi banding"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrGuestBookNotFound) {
		t.Fatalf("expected ErrGuestBookNotFound, got %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrGuestBookNotFound) {
		t.Fatalf("expected ErrGuestBookNotFound on second delete, got %v", err)
	}
}
