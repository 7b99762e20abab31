// Package service implements the stub segmentation service behind the
// wire contract: in-memory sessions, canned answers, and synthetic
// result images. It performs no real segmentation.
package service

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSessionNotFound is returned for chat and delete against an
// unknown or expired session ID.
var ErrSessionNotFound = errors.New("session not found or expired")

// session is one live conversation's server-side state.
type session struct {
	id        string
	img       image.Image
	turns     int
	createdAt time.Time
}

// SessionService owns the stub's session table. Safe for concurrent
// request handlers.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session
	log      zerolog.Logger
}

// NewSessionService creates an empty session service.
func NewSessionService(log zerolog.Logger) *SessionService {
	return &SessionService{
		sessions: make(map[string]*session),
		log:      log,
	}
}

// Created is the result of opening a session.
type Created struct {
	SessionID string
	Greeting  string
}

// Create registers a new session around an uploaded image.
func (s *SessionService) Create(img image.Image) Created {
	sess := &session{
		id:        uuid.NewString(),
		img:       img,
		createdAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Info().Str("session_id", sess.id).Msg("session created")
	return Created{
		SessionID: sess.id,
		Greeting:  "Image received. Describe what you want to cut out.",
	}
}

// Reply is the result of one chat turn. ResultImage is a data URI.
type Reply struct {
	Answer      string
	ResultImage string
}

// Chat runs one canned turn: every request "succeeds" and returns a
// fresh synthetic overlay so clients can exercise the full result path.
func (s *SessionService) Chat(sessionID, message string) (*Reply, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	sess.turns++
	turn := sess.turns
	img := sess.img
	s.mu.Unlock()

	result, err := overlayDataURI(img, turn)
	if err != nil {
		return nil, fmt.Errorf("render result: %w", err)
	}

	return &Reply{
		Answer:      fmt.Sprintf("Segmented %q. The highlighted region is overlaid on your image.", message),
		ResultImage: result,
	}, nil
}

// Delete removes a session. Deleting an unknown session is an error at
// this layer; the transport decides whether anyone cares.
func (s *SessionService) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.log.Info().Str("session_id", sessionID).Msg("session deleted")
	return nil
}

// Count returns the number of live sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
