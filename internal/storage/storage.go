package storage

import "github.com/unifiedhq/chatcli/internal/models"

// Storage persists the bearer token and user record between runs. Read
// reports absence as (nil, nil); on corrupt content it clears the entries
// and reports absent rather than failing.
type Storage interface {
	Read() (*models.Credentials, error)
	Write(token string, user *models.User) error
	Clear() error
	Close() error
}
