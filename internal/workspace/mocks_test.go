package workspace

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"segstudio/internal/backend"
)

// MockBackend mocks the backend.API interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) CreateSession(ctx context.Context, filename string, image io.Reader) (*backend.CreatedSession, error) {
	args := m.Called(ctx, filename, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.CreatedSession), args.Error(1)
}

func (m *MockBackend) SendTurn(ctx context.Context, sessionID, text string) (*backend.TurnReply, error) {
	args := m.Called(ctx, sessionID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.TurnReply), args.Error(1)
}

func (m *MockBackend) DeleteSession(ctx context.Context, sessionID string) {
	m.Called(ctx, sessionID)
}
