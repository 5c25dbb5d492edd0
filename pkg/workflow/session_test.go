package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession("due_diligence", uuid.New(), map[string]interface{}{"target": "acme"})

	assert.Equal(t, StatusInitializing, s.Status())
	assert.NotEqual(t, uuid.Nil, s.ID())

	require.True(t, s.MarkRunning())
	assert.Equal(t, StatusRunning, s.Status())

	// MarkRunning only applies to initializing sessions.
	assert.False(t, s.MarkRunning())

	require.True(t, s.SetProgress(40))
	snap := s.Snapshot()
	assert.Equal(t, 40, snap.Progress)
	assert.Equal(t, "due_diligence", snap.WorkflowID)

	require.True(t, s.Complete())
	assert.Equal(t, StatusCompleted, s.Status())
	assert.Equal(t, 100, s.Snapshot().Progress)

	select {
	case <-s.Done():
	default:
		t.Fatal("Done channel should be closed after completion")
	}
}

func TestSessionTerminalIsFinal(t *testing.T) {
	s := NewSession("founder_signal", uuid.New(), nil)
	require.True(t, s.Cancel())

	assert.False(t, s.Cancel())
	assert.False(t, s.Complete())
	assert.False(t, s.Fail("too late"))
	assert.False(t, s.SetProgress(60))
	assert.False(t, s.MarkRunning())
	assert.Equal(t, StatusCancelled, s.Status())
}

func TestSessionFailKeepsError(t *testing.T) {
	s := NewSession("market_mapping", uuid.New(), nil)
	s.MarkRunning()
	require.True(t, s.Fail("engine rejected the trigger"))

	snap := s.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "engine rejected the trigger", snap.Error)
	// Progress is only forced to 100 on completion.
	assert.Equal(t, 0, snap.Progress)
}

func TestSessionCancelBeforeRunning(t *testing.T) {
	s := NewSession("competitor_scan", uuid.New(), nil)
	require.True(t, s.Cancel())

	// The consumer must not be able to move a cancelled session to
	// running after the fact.
	assert.False(t, s.MarkRunning())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusInitializing.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}
