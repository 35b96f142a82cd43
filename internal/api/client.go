package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// UnauthorizedHandler is invoked whenever any response comes back with
// status 401, regardless of which request triggered it.
type UnauthorizedHandler func()

// Client wraps the unified service's REST API behind one base URL and
// attaches the bearer token to every request once set. Requests are plain
// request/response calls: no retries, no backoff; failures propagate to
// the caller.
type Client struct {
	http           *resty.Client
	logger         *zap.Logger
	onUnauthorized UnauthorizedHandler
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	c := &Client{logger: logger}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	// Any 401 anywhere ends the session process-wide. This can race an
	// in-flight login request; known limitation.
	c.http.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		if res.StatusCode() == http.StatusUnauthorized {
			c.logger.Warn("Server rejected credentials, forcing logout",
				zap.String("path", res.Request.URL))
			c.ClearAuth()
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return nil
	})

	return c
}

// SetUnauthorizedHandler registers the forced-logout callback. Must be
// called during wiring, before the client is shared.
func (c *Client) SetUnauthorizedHandler(h UnauthorizedHandler) {
	c.onUnauthorized = h
}

// SetToken attaches the bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// ClearAuth removes the bearer token from subsequent requests.
func (c *Client) ClearAuth() {
	c.http.SetAuthToken("")
	c.http.Header.Del("Authorization")
}

// GoogleLoginURL is the address a browser must visit to start the OAuth
// flow; the service redirects back to the callback path afterwards.
func (c *Client) GoogleLoginURL() string {
	return c.http.BaseURL + "/api/auth/google/login"
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var out SignupResponse
	if err := c.post(ctx, "/api/auth/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and, on success, installs the returned token on the
// client so subsequent requests are authenticated.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken != "" {
		c.SetToken(out.AccessToken)
	}
	return &out, nil
}

func (c *Client) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.post(ctx, "/api/auth/verify-email", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.post(ctx, "/api/auth/forgot-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.post(ctx, "/api/auth/reset-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.post(ctx, "/api/agent/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSessions(ctx context.Context) ([]SessionSummary, error) {
	var out []SessionSummary
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/agent/sessions")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if !res.IsSuccess() {
		return nil, errorFromResponse(res)
	}
	return out, nil
}

// GetHistory fetches the message history for sessionID; with an empty id
// the server returns the user's most recent session, if any.
func (c *Client) GetHistory(ctx context.Context, sessionID string) (*HistoryResponse, error) {
	var out HistoryResponse
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if sessionID != "" {
		req.SetQueryParam("session_id", sessionID)
	}

	res, err := req.Get("/api/agent/history")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if !res.IsSuccess() {
		return nil, errorFromResponse(res)
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if !res.IsSuccess() {
		return nil, errorFromResponse(res)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !res.IsSuccess() {
		return errorFromResponse(res)
	}
	return nil
}
