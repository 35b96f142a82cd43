package api

import "github.com/unifiedhq/chatcli/internal/models"

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type SignupResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token,omitempty"`
	TokenType   string       `json:"token_type,omitempty"`
	User        *models.User `json:"user,omitempty"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// MessageResponse is the generic acknowledgement returned by the auth
// endpoints that carry no payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ChatRequest struct {
	Message string `json:"message"`
	// SessionID is omitted for a session the server has not issued an id
	// for yet; the server mints one and returns it in the response.
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Response   string   `json:"response"`
	SessionID  string   `json:"session_id"`
	IsComplete bool     `json:"is_complete"`
	Strategies []string `json:"strategies,omitempty"`
}

// SessionSummary describes one stored chat session, most recent first in
// list responses.
type SessionSummary struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type HistoryMessage struct {
	Content string `json:"content"`
	IsUser  bool   `json:"isUser"`
}

type HistoryResponse struct {
	Messages  []HistoryMessage `json:"messages"`
	SessionID string           `json:"session_id"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
