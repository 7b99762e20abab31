package service

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	return img
}

func TestSessionLifecycle(t *testing.T) {
	svc := NewSessionService(zerolog.Nop())

	created := svc.Create(testImage())
	require.NotEmpty(t, created.SessionID)
	assert.Contains(t, created.Greeting, "Image received")
	assert.Equal(t, 1, svc.Count())

	reply, err := svc.Chat(created.SessionID, "cut out the cat")
	require.NoError(t, err)
	assert.Contains(t, reply.Answer, "cut out the cat")
	assert.True(t, strings.HasPrefix(reply.ResultImage, "data:image/png;base64,"))

	require.NoError(t, svc.Delete(created.SessionID))
	assert.Equal(t, 0, svc.Count())
}

func TestChatUnknownSession(t *testing.T) {
	svc := NewSessionService(zerolog.Nop())

	_, err := svc.Chat("nope", "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteUnknownSession(t *testing.T) {
	svc := NewSessionService(zerolog.Nop())
	assert.ErrorIs(t, svc.Delete("nope"), ErrSessionNotFound)
}

func TestDistinctSessionIDs(t *testing.T) {
	svc := NewSessionService(zerolog.Nop())
	a := svc.Create(testImage())
	b := svc.Create(testImage())
	assert.NotEqual(t, a.SessionID, b.SessionID)
	assert.Equal(t, 2, svc.Count())
}

func TestOverlayChangesPerTurn(t *testing.T) {
	svc := NewSessionService(zerolog.Nop())
	created := svc.Create(testImage())

	first, err := svc.Chat(created.SessionID, "one")
	require.NoError(t, err)
	second, err := svc.Chat(created.SessionID, "two")
	require.NoError(t, err)

	assert.NotEqual(t, first.ResultImage, second.ResultImage)
}
