package api_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segstudio/internal/api"
	"segstudio/internal/backend"
	"segstudio/internal/config"
	"segstudio/internal/service"
)

func newStub(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Stub.MaxUploadBytes = 10 << 20

	router := api.NewRouter(cfg, service.NewSessionService(zerolog.Nop()))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.RGBA{R: 50, G: 100, B: 150, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHealthRoute(t *testing.T) {
	srv := newStub(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestClientAgainstStub drives the real session client through the
// whole contract: create, chat with a result image, delete.
func TestClientAgainstStub(t *testing.T) {
	srv := newStub(t)
	client := backend.NewClient(srv.URL, 10*time.Second, zerolog.Nop())
	ctx := context.Background()

	created, err := client.CreateSession(ctx, "cat.png", bytes.NewReader(encodePNG(t)))
	require.NoError(t, err)
	assert.NotEmpty(t, created.SessionID)
	assert.Contains(t, created.Greeting, "Image received")

	reply, err := client.SendTurn(ctx, created.SessionID, "cut out the cat")
	require.NoError(t, err)
	assert.Contains(t, reply.Answer, "cut out the cat")
	assert.True(t, strings.HasPrefix(reply.ResultImage, "data:image/png;base64,"))
	assert.Equal(t, created.SessionID, reply.SessionID)

	client.DeleteSession(ctx, created.SessionID)

	// The session is gone; the next turn fails with the extracted
	// error message.
	_, err = client.SendTurn(ctx, created.SessionID, "again")
	var chatErr *backend.ChatError
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, "session not found or expired", chatErr.Message)
}

func TestCreateRejectsGarbage(t *testing.T) {
	srv := newStub(t)
	client := backend.NewClient(srv.URL, 10*time.Second, zerolog.Nop())

	_, err := client.CreateSession(context.Background(), "junk.png", strings.NewReader("not an image"))
	var createErr *backend.SessionCreateError
	require.ErrorAs(t, err, &createErr)
	assert.Contains(t, createErr.Message, "unsupported image format")
}
