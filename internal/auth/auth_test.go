package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unifiedhq/chatcli/internal/models"
	"github.com/unifiedhq/chatcli/internal/storage"
	"go.uber.org/zap"
)

func testUser() *models.User {
	return &models.User{ID: "u-1", Email: "ada@example.com", IsActive: true}
}

func TestLoadWithEmptyStorage(t *testing.T) {
	a := New(storage.NewMemoryStorage(), zap.NewNop())

	snap := a.Snapshot()
	assert.True(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated())

	a.Load()

	snap = a.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated())
}

func TestLoadRestoresStoredSession(t *testing.T) {
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Write("tok-123", testUser()))

	a := New(store, zap.NewNop())
	a.Load()

	snap := a.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, "tok-123", snap.Token)
	assert.Equal(t, "ada@example.com", snap.User.Email)
}

func TestLoadRunsOnce(t *testing.T) {
	store := storage.NewMemoryStorage()
	a := New(store, zap.NewNop())

	var transitions int
	a.Subscribe(func(s Snapshot) {
		if !s.IsLoading {
			transitions++
		}
	})

	a.Load()
	// A session written after startup must not be picked up by a second Load.
	require.NoError(t, store.Write("tok-123", testUser()))
	a.Load()

	assert.Equal(t, 1, transitions, "ready is entered exactly once")
	assert.False(t, a.Snapshot().IsAuthenticated())
}

func TestLoginPersistsAndNotifiesSynchronously(t *testing.T) {
	store := storage.NewMemoryStorage()
	a := New(store, zap.NewNop())
	a.Load()

	var observed []bool
	a.Subscribe(func(s Snapshot) {
		observed = append(observed, s.IsAuthenticated())
	})

	require.NoError(t, a.Login(testUser(), "tok-123"))

	// The subscriber saw the authenticated state on the Login call stack.
	require.Equal(t, []bool{true}, observed)

	creds, err := store.Read()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok-123", creds.Token)
}

func TestLogoutClearsStateAndStorage(t *testing.T) {
	store := storage.NewMemoryStorage()
	a := New(store, zap.NewNop())
	a.Load()
	require.NoError(t, a.Login(testUser(), "tok-123"))

	require.NoError(t, a.Logout())

	snap := a.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)

	creds, err := store.Read()
	require.NoError(t, err)
	assert.Nil(t, creds, "storage must report absent after logout")
}

func TestIsAuthenticatedRequiresBoth(t *testing.T) {
	assert.False(t, Snapshot{Token: "tok-123"}.IsAuthenticated())
	assert.False(t, Snapshot{User: testUser()}.IsAuthenticated())
	assert.True(t, Snapshot{Token: "tok-123", User: testUser()}.IsAuthenticated())
}
