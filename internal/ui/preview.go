package ui

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var errBadDataURI = errors.New("not a base64 image data URI")

// ParseDataURI decodes a self-contained image reference of the form
// data:image/...;base64,<payload> into an image.
func ParseDataURI(s string) (image.Image, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, errBadDataURI
	}
	_, payload, ok := strings.Cut(s, ";base64,")
	if !ok {
		return nil, errBadDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// LoadImageFile decodes a JPG or PNG from disk.
func LoadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// RenderHalfBlocks draws an image into a cell grid using the upper
// half block, two vertical pixels per cell. The image is sampled to fit
// within maxW columns and maxH rows while keeping its aspect ratio.
func RenderHalfBlocks(img image.Image, maxW, maxH int) string {
	if img == nil || maxW <= 0 || maxH <= 0 {
		return ""
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return ""
	}

	// Terminal cells are roughly twice as tall as wide; with two pixels
	// per cell the grid is maxW x 2*maxH pixels.
	cols, rows := fitGrid(srcW, srcH, maxW, maxH)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := sampleHex(img, col, row*2, cols, rows*2)
			bottom := sampleHex(img, col, row*2+1, cols, rows*2)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// fitGrid scales a source size into the largest cols x rows grid that
// fits the limits and preserves aspect ratio (one cell = 1x2 pixels).
func fitGrid(srcW, srcH, maxW, maxH int) (cols, rows int) {
	cols = maxW
	rows = cols * srcH / (srcW * 2)
	if rows > maxH {
		rows = maxH
		cols = rows * 2 * srcW / srcH
		if cols > maxW {
			cols = maxW
		}
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// sampleHex nearest-neighbor samples the pixel for grid cell (gx, gy)
// in a gridW x gridH pixel grid, as a #rrggbb string.
func sampleHex(img image.Image, gx, gy, gridW, gridH int) string {
	bounds := img.Bounds()
	x := bounds.Min.X + gx*bounds.Dx()/gridW
	y := bounds.Min.Y + gy*bounds.Dy()/gridH
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
