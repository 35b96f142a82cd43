package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/unifiedhq/chatcli/internal/models"
)

// SessionID is a tagged session identifier: either provisional (minted
// locally before the server has seen the session) or confirmed (issued by
// the server, stable and unique). The tag is explicit so nothing needs to
// sniff id strings to tell the two apart.
type SessionID struct {
	value     string
	confirmed bool
}

// NewProvisionalID mints a fresh client-side identifier.
func NewProvisionalID() SessionID {
	return SessionID{value: "local-" + uuid.New().String()}
}

// ServerID wraps an identifier issued by the server.
func ServerID(id string) SessionID {
	return SessionID{value: id, confirmed: true}
}

func (id SessionID) String() string { return id.value }

// Confirmed reports whether the server issued this identifier.
func (id SessionID) Confirmed() bool { return id.confirmed }

func (id SessionID) IsZero() bool { return id.value == "" }

// Session is one chat conversation. A session starts provisional and is
// confirmed in place, at most once, when the first send returns a server
// id; its position in the list is its identity across that transition.
type Session struct {
	ID        SessionID
	Title     string
	Messages  []models.Message
	CreatedAt time.Time
}

const defaultTitle = "New Chat"

func newSession() *Session {
	return &Session{
		ID:        NewProvisionalID(),
		Title:     defaultTitle,
		CreatedAt: time.Now(),
	}
}

func newMessage(role models.Role, content string, pending bool) models.Message {
	return models.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Pending:   pending,
	}
}
