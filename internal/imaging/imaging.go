// Package imaging derives the stored variants of uploaded pictures: a
// banner capped at a maximum width and an Open Graph card at a fixed
// aspect ratio. Both are written as JPEG.
package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"

	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// BannerMaxWidth caps the banner variant; smaller sources are kept as is.
	BannerMaxWidth = 1600

	// OGWidth and OGHeight give the Open Graph card its fixed frame.
	OGWidth  = 1200
	OGHeight = 630

	jpegQuality = 85
)

// Decode reads an image in any of the accepted upload formats (jpeg, png,
// webp) and reports the detected format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Banner scales the source down to at most BannerMaxWidth, preserving the
// aspect ratio. Sources already narrow enough are returned unchanged.
func Banner(src image.Image) image.Image {
	bounds := src.Bounds()
	width := bounds.Dx()
	if width <= BannerMaxWidth {
		return src
	}

	height := bounds.Dy() * BannerMaxWidth / width
	if height < 1 {
		height = 1
	}
	return scale(src, BannerMaxWidth, height)
}

// OG renders the source into the fixed OGWidth×OGHeight frame, scaling to
// cover the frame and cropping the overflow around the center.
func OG(src image.Image) image.Image {
	bounds := src.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	scaledWidth := OGWidth
	scaledHeight := srcHeight * OGWidth / srcWidth
	if scaledHeight < OGHeight {
		scaledHeight = OGHeight
		scaledWidth = srcWidth * OGHeight / srcHeight
	}

	scaled := scale(src, scaledWidth, scaledHeight)

	offsetX := (scaledWidth - OGWidth) / 2
	offsetY := (scaledHeight - OGHeight) / 2
	out := image.NewRGBA(image.Rect(0, 0, OGWidth, OGHeight))
	draw.Draw(out, out.Bounds(), scaled, image.Pt(offsetX, offsetY), draw.Src)
	return out
}

// WriteJPEG encodes the image with the standard upload quality.
func WriteJPEG(w io.Writer, img image.Image) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

func scale(src image.Image, width, height int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), src, src.Bounds(), draw.Over, nil)
	return out
}
