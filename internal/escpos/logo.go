package escpos

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/nfnt/resize"
)

const (
	// Printable dot widths for 58mm and 80mm paper.
	dots58 = 384
	dots80 = 576

	maxLogoBytes = 2 << 20
	fetchTimeout = 5 * time.Second
)

// FetchLogo downloads and rasterizes a receipt logo for the given paper
// width. widthHint, when in range, overrides the paper's full dot width.
// Callers treat failures as "skip the logo section", not as print failures.
func FetchLogo(ctx context.Context, url string, paperWidth, widthHint int) ([]byte, error) {
	target := dots80
	if paperWidth == 58 {
		target = dots58
	}
	if widthHint > 0 && widthHint < target {
		target = widthHint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("logo request: %w", err)
	}
	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logo fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("logo fetch: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("logo decode: %w", err)
	}

	if img.Bounds().Dx() > target {
		img = resize.Resize(uint(target), 0, img, resize.Bilinear)
	}
	return Raster(img), nil
}

// Raster converts an image into a GS v 0 raster block: a 1-bit bitmap with
// dark pixels set. The width is rounded down to a multiple of 8 as ESC/POS
// requires.
func Raster(img image.Image) []byte {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width%8 != 0 {
		width = width - (width % 8)
	}
	if width == 0 || height == 0 {
		return nil
	}

	rowBytes := width / 8
	raster := make([]byte, rowBytes*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			gray := (r + g + b) / 3
			if gray < 0x8000 {
				raster[y*rowBytes+x/8] |= 1 << (7 - uint(x%8))
			}
		}
	}

	header := []byte{
		0x1D, 0x76, 0x30, 0x00,
		byte(rowBytes), byte(rowBytes >> 8),
		byte(height), byte(height >> 8),
	}
	return append(header, raster...)
}
