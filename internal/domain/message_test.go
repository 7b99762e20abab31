package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMessageIdentity(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		m := NewUserMessage("hello")
		assert.False(t, seen[m.ID], "duplicate message ID %s", m.ID)
		seen[m.ID] = true
	}
}

func TestNewMessageRoles(t *testing.T) {
	u := NewUserMessage("cut out the cat")
	a := NewAssistantMessage("Done")

	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, "cut out the cat", u.Content)
	assert.Equal(t, RoleAssistant, a.Role)
	assert.Equal(t, "Done", a.Content)
	assert.NotEqual(t, u.ID, a.ID)
}

func TestSessionLive(t *testing.T) {
	assert.False(t, Session{}.Live())
	assert.True(t, Session{ID: "s1"}.Live())
}
