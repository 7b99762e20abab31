package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Fallback messages when a failure response carries no usable error body.
// The extraction rule matches the service's browser frontend: an
// unparseable body yields "Unknown error", a parseable body with an
// empty error field yields the per-operation fallback.
const (
	fallbackCreate  = "Failed to create session"
	fallbackChat    = "Failed to send message"
	fallbackUnknown = "Unknown error"
)

// SessionCreateError reports a failed session-create exchange.
type SessionCreateError struct {
	Message string
}

func (e *SessionCreateError) Error() string {
	return fmt.Sprintf("create session: %s", e.Message)
}

// ChatError reports a failed chat-turn exchange.
type ChatError struct {
	Message string
}

func (e *ChatError) Error() string {
	return fmt.Sprintf("send turn: %s", e.Message)
}

// UserMessage returns the user-facing text for a client error. For the
// typed errors this is the extracted server message; anything else
// falls back to Error().
func UserMessage(err error) string {
	var ce *SessionCreateError
	if errors.As(err, &ce) {
		return ce.Message
	}
	var te *ChatError
	if errors.As(err, &te) {
		return te.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

type errorBody struct {
	Error string `json:"error"`
}

// extractError pulls the user-facing message out of a failure response
// body. This rule is identical for all three operations.
func extractError(r io.Reader, fallback string) string {
	var body errorBody
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return fallbackUnknown
	}
	if body.Error == "" {
		return fallback
	}
	return body.Error
}
