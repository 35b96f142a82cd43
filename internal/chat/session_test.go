package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionIDTagging(t *testing.T) {
	provisional := NewProvisionalID()
	assert.False(t, provisional.Confirmed())
	assert.False(t, provisional.IsZero())

	other := NewProvisionalID()
	assert.NotEqual(t, provisional, other, "provisional ids are fresh per session")

	confirmed := ServerID("srv-1")
	assert.True(t, confirmed.Confirmed())
	assert.Equal(t, "srv-1", confirmed.String())

	// A server id equal in text to a provisional one is still a distinct
	// identifier; the tag, not the string, tells them apart.
	assert.NotEqual(t, ServerID(provisional.String()), provisional)

	assert.True(t, SessionID{}.IsZero())
}
