package ui

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseDataURI(t *testing.T) {
	raw := encodeTestPNG(t, 4, 4)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	img, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	t.Run("rejects non data URI", func(t *testing.T) {
		_, err := ParseDataURI("http://example.com/cat.png")
		assert.Error(t, err)
	})

	t.Run("rejects missing base64 marker", func(t *testing.T) {
		_, err := ParseDataURI("data:image/png,plain")
		assert.Error(t, err)
	})

	t.Run("rejects bad payload", func(t *testing.T) {
		_, err := ParseDataURI("data:image/png;base64,!!!")
		assert.Error(t, err)
	})
}

func TestLoadImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(path, encodeTestPNG(t, 8, 6), 0o644))

	img, err := LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	_, err = LoadImageFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestRenderHalfBlocksFitsBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))

	out := RenderHalfBlocks(img, 20, 10)
	lines := strings.Split(out, "\n")
	assert.LessOrEqual(t, len(lines), 10)
	for _, line := range lines {
		assert.LessOrEqual(t, strings.Count(line, "▀"), 20)
	}

	assert.Empty(t, RenderHalfBlocks(nil, 20, 10))
	assert.Empty(t, RenderHalfBlocks(img, 0, 10))
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "cat.jpg")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0o644))

	assert.NoError(t, ValidateImagePath(good))
	assert.Error(t, ValidateImagePath(filepath.Join(dir, "cat.gif")), "unsupported extension")
	assert.Error(t, ValidateImagePath(filepath.Join(dir, "missing.png")), "missing file")
	assert.Error(t, ValidateImagePath(dir+"/"), "directory")
}
