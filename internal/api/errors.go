package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is reported when the server rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// Error carries the status code and server-provided detail of a failed
// request so callers can present business errors inline.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// errorFromResponse decodes the service's error body, which is either
// {"detail": "..."} or {"message": "..."}.
func errorFromResponse(res *resty.Response) error {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(res.Body(), &body)

	detail := body.Detail
	if detail == "" {
		detail = body.Message
	}
	return &Error{StatusCode: res.StatusCode(), Detail: detail}
}
