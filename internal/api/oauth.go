package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/unifiedhq/chatcli/internal/models"
)

// ErrOAuthDenied wraps the error code the provider reports on the callback
// when the user cancels or the exchange fails.
var ErrOAuthDenied = errors.New("oauth authentication failed")

// ParseOAuthCallback extracts the credentials from the callback URL the
// service redirects to after a completed OAuth flow. The URL carries either
// `token` and `user` (URL-encoded JSON) or an `error` code.
func ParseOAuthCallback(rawURL string) (*models.User, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid callback URL: %w", err)
	}

	params := u.Query()
	if code := params.Get("error"); code != "" {
		return nil, "", fmt.Errorf("%w: %s", ErrOAuthDenied, code)
	}

	token := params.Get("token")
	userStr := params.Get("user")
	if token == "" || userStr == "" {
		return nil, "", errors.New("callback is missing token or user data")
	}

	var user models.User
	if err := json.Unmarshal([]byte(userStr), &user); err != nil {
		return nil, "", fmt.Errorf("invalid user data in callback: %w", err)
	}

	return &user, token, nil
}
