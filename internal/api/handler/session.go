package handler

import (
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"segstudio/internal/api/response"
	"segstudio/internal/service"
)

// SessionHandler exposes the three session operations of the wire
// contract.
type SessionHandler struct {
	sessions       *service.SessionService
	maxUploadBytes int64
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{sessions: sessions, maxUploadBytes: maxUploadBytes}
}

// Create opens a session from a multipart upload with an `image` field.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		response.BadRequest(w, "image too large or malformed upload")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "missing image")
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		response.BadRequest(w, "unsupported image format (supports JPG, PNG)")
		return
	}

	created := h.sessions.Create(img)
	response.OK(w, map[string]string{
		"session_id": created.SessionID,
		"message":    created.Greeting,
	})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Chat runs one turn and returns the answer plus an optional result
// image. result_image is an explicit null when absent, per contract.
func (h *SessionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	}
	if req.SessionID == "" || req.Message == "" {
		response.BadRequest(w, "missing session_id or message")
		return
	}

	reply, err := h.sessions.Chat(req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.NotFound(w, "session not found or expired")
			return
		}
		response.InternalError(w, "failed to process message")
		return
	}

	var resultImage *string
	if reply.ResultImage != "" {
		resultImage = &reply.ResultImage
	}
	response.OK(w, map[string]any{
		"answer":       reply.Answer,
		"result_image": resultImage,
		"session_id":   req.SessionID,
	})
}

type deleteRequest struct {
	SessionID string `json:"session_id"`
}

// Delete tears down a session. The contract ignores the outcome, so an
// unknown session still gets a 200.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	}

	if err := h.sessions.Delete(req.SessionID); err != nil {
		// Best-effort operation: nothing to report.
		response.OK(w, map[string]string{})
		return
	}
	response.OK(w, map[string]string{})
}
