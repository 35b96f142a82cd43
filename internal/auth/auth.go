package auth

import (
	"fmt"
	"sync"

	"github.com/unifiedhq/chatcli/internal/models"
	"github.com/unifiedhq/chatcli/internal/storage"
	"go.uber.org/zap"
)

// Snapshot is an immutable view of the auth state. IsAuthenticated is
// derived from the presence of both token and user, never stored.
type Snapshot struct {
	User      *models.User
	Token     string
	IsLoading bool
}

func (s Snapshot) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Subscriber is notified synchronously on every state transition.
type Subscriber func(Snapshot)

// Authenticator owns the session state for the lifetime of the process:
// Loading until the one startup read from storage completes, Ready after.
// It is explicitly constructed and injected; there is no package-level
// instance.
type Authenticator struct {
	mu          sync.Mutex
	store       storage.Storage
	logger      *zap.Logger
	user        *models.User
	token       string
	loading     bool
	loaded      bool
	subscribers []Subscriber
}

func New(store storage.Storage, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		store:   store,
		logger:  logger,
		loading: true,
	}
}

// Load performs the single startup read from storage and enters Ready.
// It runs at most once per process; later calls are no-ops. A read failure
// still enters Ready, unauthenticated.
func (a *Authenticator) Load() {
	a.mu.Lock()
	if a.loaded {
		a.mu.Unlock()
		return
	}
	a.loaded = true

	creds, err := a.store.Read()
	if err != nil {
		a.logger.Warn("Failed to read stored session", zap.Error(err))
	}
	if creds != nil {
		a.token = creds.Token
		a.user = creds.User
	}
	a.loading = false
	a.notifyLocked()
}

// Login sets the user and token, persisting them first so a crash between
// the two steps never leaves state ahead of storage.
func (a *Authenticator) Login(user *models.User, token string) error {
	if err := a.store.Write(token, user); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	a.mu.Lock()
	a.user = user
	a.token = token
	a.notifyLocked()
	return nil
}

// Logout clears the in-memory state and storage. Callers observe both
// cleared together.
func (a *Authenticator) Logout() error {
	a.mu.Lock()
	a.user = nil
	a.token = ""
	err := a.store.Clear()
	a.notifyLocked()
	if err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	return nil
}

func (a *Authenticator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Subscribe registers fn for all future transitions.
func (a *Authenticator) Subscribe(fn Subscriber) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

func (a *Authenticator) snapshotLocked() Snapshot {
	return Snapshot{User: a.user, Token: a.token, IsLoading: a.loading}
}

// notifyLocked releases the mutex and delivers the snapshot to every
// subscriber on the caller's stack, so no intermediate state is observable
// between the mutation and the notification.
func (a *Authenticator) notifyLocked() {
	snap := a.snapshotLocked()
	subs := make([]Subscriber, len(a.subscribers))
	copy(subs, a.subscribers)
	a.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
