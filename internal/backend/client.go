// Package backend is the typed client for the segmentation service.
// It speaks the service's three-operation wire contract and normalizes
// transport and protocol failures into SessionCreateError / ChatError;
// no raw HTTP errors escape this package.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// CreatedSession is the result of a successful session create.
type CreatedSession struct {
	SessionID string
	Greeting  string
}

// TurnReply is the result of a successful chat turn. ResultImage is
// empty when the service did not produce a new result image.
type TurnReply struct {
	Answer      string
	ResultImage string
	SessionID   string
}

// API is the session client surface consumed by the workspace state
// machine. DeleteSession is best effort: failures are logged, never
// returned.
type API interface {
	CreateSession(ctx context.Context, filename string, image io.Reader) (*CreatedSession, error)
	SendTurn(ctx context.Context, sessionID, text string) (*TurnReply, error)
	DeleteSession(ctx context.Context, sessionID string)
}

// Client implements API over HTTP. One request/response exchange per
// operation: no retry, no caching, no timeout beyond the transport's.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a session client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type createResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Answer      string  `json:"answer"`
	ResultImage *string `json:"result_image"`
	SessionID   string  `json:"session_id"`
}

type deleteRequest struct {
	SessionID string `json:"session_id"`
}

// CreateSession uploads an image and opens a new conversation.
func (c *Client) CreateSession(ctx context.Context, filename string, image io.Reader) (*CreatedSession, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, &SessionCreateError{Message: fallbackCreate}
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, &SessionCreateError{Message: fallbackCreate}
	}
	if err := mw.Close(); err != nil {
		return nil, &SessionCreateError{Message: fallbackCreate}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/session/create", &body)
	if err != nil {
		return nil, &SessionCreateError{Message: fallbackCreate}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &SessionCreateError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return nil, &SessionCreateError{Message: extractError(resp.Body, fallbackCreate)}
	}

	var cr createResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, &SessionCreateError{Message: fallbackUnknown}
	}

	return &CreatedSession{SessionID: cr.SessionID, Greeting: cr.Message}, nil
}

// SendTurn sends one chat message in an existing session.
func (c *Client) SendTurn(ctx context.Context, sessionID, text string) (*TurnReply, error) {
	payload, err := json.Marshal(chatRequest{SessionID: sessionID, Message: text})
	if err != nil {
		return nil, &ChatError{Message: fallbackChat}
	}

	resp, err := c.postJSON(ctx, "/api/session/chat", payload)
	if err != nil {
		return nil, &ChatError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return nil, &ChatError{Message: extractError(resp.Body, fallbackChat)}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, &ChatError{Message: fallbackUnknown}
	}

	reply := &TurnReply{Answer: cr.Answer, SessionID: cr.SessionID}
	if cr.ResultImage != nil {
		reply.ResultImage = *cr.ResultImage
	}
	return reply, nil
}

// DeleteSession tears down a server-side session. Best effort: the
// outcome is logged and swallowed, never surfaced to the caller.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) {
	payload, err := json.Marshal(deleteRequest{SessionID: sessionID})
	if err != nil {
		c.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to delete session")
		return
	}

	resp, err := c.postJSON(ctx, "/api/session/delete", payload)
	if err != nil {
		c.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to delete session")
		return
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		c.log.Warn().Int("status", resp.StatusCode).Str("session_id", sessionID).Msg("failed to delete session")
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
