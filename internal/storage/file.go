package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unifiedhq/chatcli/internal/models"
	"go.uber.org/zap"
)

// FileStorage keeps the credentials in a single JSON file, created with
// owner-only permissions.
type FileStorage struct {
	path   string
	logger *zap.Logger
}

func NewFileStorage(path string, logger *zap.Logger) (*FileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("error creating storage directory: %w", err)
	}

	return &FileStorage{path: path, logger: logger}, nil
}

func (s *FileStorage) Read() (*models.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading credentials file: %w", err)
	}

	var creds models.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupt entries are dropped rather than surfaced; the caller
		// sees an absent session and re-authenticates.
		s.logger.Warn("Discarding corrupt credentials file",
			zap.Error(err),
			zap.String("path", s.path))
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if creds.Token == "" || creds.User == nil {
		return nil, nil
	}
	return &creds, nil
}

func (s *FileStorage) Write(token string, user *models.User) error {
	data, err := json.Marshal(models.Credentials{Token: token, User: user})
	if err != nil {
		return fmt.Errorf("error encoding credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("error writing credentials file: %w", err)
	}
	return nil
}

func (s *FileStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error clearing credentials file: %w", err)
	}
	return nil
}

func (s *FileStorage) Close() error {
	// Nothing to close for file storage
	return nil
}
