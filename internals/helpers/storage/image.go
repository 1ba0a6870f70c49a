package storage

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// FitPNG decodes jpeg/png/gif/bmp/tiff, fits it inside maxW x maxH keeping the
// aspect ratio (never upscales) and re-encodes as PNG.
func FitPNG(r io.Reader, maxW, maxH int) ([]byte, image.Point, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("image illisible: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > maxW || b.Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, image.Point{}, err
	}
	return buf.Bytes(), img.Bounds().Size(), nil
}
