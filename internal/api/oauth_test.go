package api

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOAuthCallback(t *testing.T) {
	userJSON := `{"id":"u-1","email":"ada@example.com","full_name":"Ada Lovelace","is_active":true}`
	callback := "http://localhost:5173/auth/callback?token=tok-123&user=" + url.QueryEscape(userJSON)

	user, token, err := ParseOAuthCallback(callback)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.FullName)
}

func TestParseOAuthCallbackError(t *testing.T) {
	_, _, err := ParseOAuthCallback("http://localhost:5173/auth/callback?error=access_denied")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOAuthDenied))
	assert.Contains(t, err.Error(), "access_denied")
}

func TestParseOAuthCallbackMissingData(t *testing.T) {
	_, _, err := ParseOAuthCallback("http://localhost:5173/auth/callback?token=tok-123")
	assert.Error(t, err, "token without user is rejected")

	_, _, err = ParseOAuthCallback("http://localhost:5173/auth/callback")
	assert.Error(t, err)
}

func TestParseOAuthCallbackBadUserJSON(t *testing.T) {
	callback := "http://localhost:5173/auth/callback?token=tok-123&user=" + url.QueryEscape("{broken")
	_, _, err := ParseOAuthCallback(callback)
	assert.Error(t, err)
}
