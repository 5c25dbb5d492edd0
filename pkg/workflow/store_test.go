package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStorePutGet(t *testing.T) {
	store := NewSessionStore(time.Hour, time.Hour)

	s := NewSession("founder_signal", uuid.New(), nil)
	store.Put(s)

	got, ok := store.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = store.Get(uuid.New())
	assert.False(t, ok)
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore(time.Hour, time.Hour)
	s := NewSession("due_diligence", uuid.New(), nil)
	store.Put(s)
	require.Equal(t, 1, store.Count())

	store.Delete(s.ID())
	_, ok := store.Get(s.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count())
}

func TestSessionStoreTerminalEviction(t *testing.T) {
	// Short TTL and sweep so the test observes the eviction directly.
	store := NewSessionStore(20*time.Millisecond, 10*time.Millisecond)

	active := NewSession("market_mapping", uuid.New(), nil)
	terminal := NewSession("competitor_scan", uuid.New(), nil)
	terminal.Cancel()

	store.Put(active)
	store.Put(terminal)
	store.MarkTerminal(terminal)

	time.Sleep(60 * time.Millisecond)

	_, ok := store.Get(active.ID())
	assert.True(t, ok, "active sessions must never expire")

	_, ok = store.Get(terminal.ID())
	assert.False(t, ok, "terminal sessions expire after the TTL")
}
