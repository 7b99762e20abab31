// Package workspace holds the conversation state machine for one
// segmentation session: session identity, the ordered message log, the
// image pair, and the busy flag, together with the legal transitions
// for upload, send, and reset.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"segstudio/internal/backend"
	"segstudio/internal/domain"
)

// State is the coarse workspace state. StateActive carries an
// orthogonal busy flag for the in-flight request.
type State int

const (
	// StateIdle means no session exists; the upload screen is shown.
	StateIdle State = iota
	// StateActive means a session is live and the workspace is shown.
	StateActive
)

var (
	// ErrBusy is returned when an operation is attempted while a
	// request is already outstanding. Concurrent attempts are rejected,
	// not queued.
	ErrBusy = errors.New("a request is already in flight")
	// ErrSessionActive is returned when StartSession is called while a
	// session already exists.
	ErrSessionActive = errors.New("a session is already active")
	// ErrNoSession is returned when SendTurn is called without a live
	// session.
	ErrNoSession = errors.New("no active session")
)

// deleteTimeout bounds the fire-and-forget session delete so an
// unreachable service cannot pin the call forever.
const deleteTimeout = 10 * time.Second

// Workspace is the conversation state machine. All mutations go through
// StartSession, SendTurn, and Reset; renderers read consistent copies
// via Snapshot. Safe for use from multiple goroutines.
type Workspace struct {
	mu     sync.Mutex
	client backend.API
	log    zerolog.Logger

	state     State
	sessionID string
	messages  []domain.Message
	images    domain.ImagePair
	busy      bool
	uploadErr string

	// gen is bumped by Reset. A response resolving against an older
	// generation is stale (its session was torn down) and is discarded
	// instead of being applied to fresh state.
	gen uint64
}

// Snapshot is a consistent, render-safe copy of the workspace state.
type Snapshot struct {
	State       State
	SessionID   string
	Messages    []domain.Message
	Images      domain.ImagePair
	Busy        bool
	UploadError string
}

// New creates an idle workspace backed by the given session client.
func New(client backend.API, log zerolog.Logger) *Workspace {
	return &Workspace{client: client, log: log}
}

// Snapshot returns a copy of the current state. The message slice is
// copied so callers can hold it across later mutations.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	msgs := make([]domain.Message, len(w.messages))
	copy(msgs, w.messages)

	return Snapshot{
		State:       w.state,
		SessionID:   w.sessionID,
		Messages:    msgs,
		Images:      w.images,
		Busy:        w.busy,
		UploadError: w.uploadErr,
	}
}

// StartSession uploads the image at imagePath and opens a session. On
// success the workspace becomes active with the server's greeting as
// the sole message; on failure it stays idle with the failure's
// user-facing text as the upload error. Busy holds for exactly the
// duration of the exchange.
func (w *Workspace) StartSession(ctx context.Context, imagePath string) error {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return ErrSessionActive
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	w.busy = true
	w.uploadErr = ""
	gen := w.gen
	w.mu.Unlock()

	created, err := w.createSession(ctx, imagePath)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.gen != gen {
		// Reset happened while the request was in flight; the response
		// belongs to a torn-down workspace.
		w.log.Debug().Str("image", imagePath).Msg("discarding stale session-create response")
		return nil
	}
	w.busy = false

	if err != nil {
		w.uploadErr = backend.UserMessage(err)
		w.log.Warn().Err(err).Str("image", imagePath).Msg("session create failed")
		return err
	}

	w.state = StateActive
	w.sessionID = created.SessionID
	w.images = domain.ImagePair{Original: imagePath}
	w.messages = []domain.Message{domain.NewAssistantMessage(created.Greeting)}
	w.log.Info().Str("session_id", created.SessionID).Str("image", imagePath).Msg("session created")
	return nil
}

func (w *Workspace) createSession(ctx context.Context, imagePath string) (*backend.CreatedSession, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, &backend.SessionCreateError{Message: fmt.Sprintf("cannot read %s", imagePath)}
	}
	defer f.Close()
	return w.client.CreateSession(ctx, filepath.Base(imagePath), f)
}

// Turn is the handle for one in-flight chat turn, carrying the session
// identity and generation captured when the turn began.
type Turn struct {
	gen       uint64
	sessionID string
	text      string
}

// BeginTurn is the synchronous half of a chat turn: it appends the
// user message optimistically and marks the workspace busy, before any
// network traffic. The append is never rolled back. Whitespace-only
// text is a no-op, returning (nil, nil).
func (w *Workspace) BeginTurn(text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateActive {
		return nil, ErrNoSession
	}
	if w.busy {
		return nil, ErrBusy
	}
	w.messages = append(w.messages, domain.NewUserMessage(text))
	w.busy = true
	return &Turn{gen: w.gen, sessionID: w.sessionID, text: text}, nil
}

// ResolveTurn is the asynchronous half: it performs the exchange and
// appends the assistant reply, or a formatted error standing in for
// it. A turn whose session was reset while in flight is discarded.
func (w *Workspace) ResolveTurn(ctx context.Context, t *Turn) {
	reply, err := w.client.SendTurn(ctx, t.sessionID, t.text)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.gen != t.gen {
		w.log.Debug().Str("session_id", t.sessionID).Msg("discarding stale turn response")
		return
	}
	w.busy = false

	if err != nil {
		// A failed turn never dead-ends the conversation: the failure
		// becomes an assistant-authored message and the user can retry.
		w.messages = append(w.messages, domain.NewAssistantMessage(
			fmt.Sprintf("Error: %s", backend.UserMessage(err))))
		w.log.Warn().Err(err).Str("session_id", t.sessionID).Msg("turn failed")
		return
	}

	w.messages = append(w.messages, domain.NewAssistantMessage(reply.Answer))
	if reply.ResultImage != "" {
		w.images.Result = reply.ResultImage
	}
}

// SendTurn runs a whole turn: optimistic append, exchange, resolution.
func (w *Workspace) SendTurn(ctx context.Context, text string) error {
	t, err := w.BeginTurn(text)
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}
	w.ResolveTurn(ctx, t)
	return nil
}

// Reset tears the workspace down to idle immediately, then issues a
// best-effort delete for the old session. The delete's outcome is
// ignored; any response still in flight for the old session resolves
// against a stale generation and is discarded.
func (w *Workspace) Reset() {
	w.mu.Lock()
	sessionID := w.sessionID
	w.state = StateIdle
	w.sessionID = ""
	w.messages = nil
	w.images = domain.ImagePair{}
	w.uploadErr = ""
	w.busy = false
	w.gen++
	w.mu.Unlock()

	if sessionID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()
	w.client.DeleteSession(ctx, sessionID)
	w.log.Info().Str("session_id", sessionID).Msg("workspace reset")
}
