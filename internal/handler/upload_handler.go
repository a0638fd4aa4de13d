package handler

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/syahz/apps-be/internal/imaging"
)

// maxUploadBytes caps the accepted source image size.
const maxUploadBytes = 3 << 20

// UploadPublicationImages accepts one source image and stores the two
// publication variants, returning their public URLs.
func (a *API) UploadPublicationImages(c *gin.Context) {
	src, ok := a.readUpload(c)
	if !ok {
		return
	}

	stem := uploadStem("pub")
	bannerName := stem + "-banner.jpg"
	ogName := stem + "-og.jpg"

	if err := a.writeVariant(bannerName, imaging.Banner(src)); err != nil {
		respondError(c, http.StatusInternalServerError, "Gagal menyimpan gambar")
		return
	}
	if err := a.writeVariant(ogName, imaging.OG(src)); err != nil {
		os.Remove(filepath.Join(a.uploadDir, bannerName))
		respondError(c, http.StatusInternalServerError, "Gagal menyimpan gambar")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Gambar berhasil diunggah",
		"image":    a.uploadURL + "/" + bannerName,
		"image_og": a.uploadURL + "/" + ogName,
	})
}

// UploadGuestBookImage accepts one source image and stores a single
// width-capped variant for guest book entries.
func (a *API) UploadGuestBookImage(c *gin.Context) {
	src, ok := a.readUpload(c)
	if !ok {
		return
	}

	name := uploadStem("guest") + ".jpg"
	if err := a.writeVariant(name, imaging.Banner(src)); err != nil {
		respondError(c, http.StatusInternalServerError, "Gagal menyimpan gambar")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Gambar berhasil diunggah",
		"url":     a.uploadURL + "/" + name,
	})
}

// readUpload pulls the "image" form file, enforces the size limit and
// decodes it. Decoding doubles as the format check: only jpeg, png and webp
// decoders are registered.
func (a *API) readUpload(c *gin.Context) (image.Image, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Gambar tidak ditemukan pada permintaan")
		return nil, false
	}
	if file.Size > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "Ukuran gambar maksimal 3 MB")
		return nil, false
	}

	reader, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Gagal membaca gambar")
		return nil, false
	}
	defer reader.Close()

	src, _, err := imaging.Decode(reader)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Format gambar harus JPEG, PNG, atau WebP")
		return nil, false
	}
	return src, true
}

func (a *API) writeVariant(name string, img image.Image) error {
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		return err
	}

	out, err := os.Create(filepath.Join(a.uploadDir, name))
	if err != nil {
		return err
	}
	defer out.Close()

	return imaging.WriteJPEG(out, img)
}

func uploadStem(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), uuid.New().String())
}
