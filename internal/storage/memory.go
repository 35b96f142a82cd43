package storage

import (
	"sync"

	"github.com/unifiedhq/chatcli/internal/models"
)

type MemoryStorage struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Read() (*models.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" || s.user == nil {
		return nil, nil
	}
	return &models.Credentials{Token: s.token, User: s.user}, nil
}

func (s *MemoryStorage) Write(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = user
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
