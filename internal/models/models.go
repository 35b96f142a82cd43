package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. Messages are immutable once appended;
// ordering within a session is insertion order and is the only meaningful
// order.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// Pending marks an optimistically appended message whose send has not
	// completed. Cleared on success, left set if the send fails.
	Pending bool `json:"pending,omitempty"`
}

// User is the account record issued by the auth service. Beyond presence
// checks the client treats it as opaque.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials is the token/user pair persisted between runs.
type Credentials struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
