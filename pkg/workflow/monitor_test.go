package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vc-intel-be/internal/model"
	"vc-intel-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures everything published to it.
type recordingSink struct {
	mu       sync.Mutex
	messages []model.SinkMessage
	fail     bool
}

func (s *recordingSink) Publish(_ context.Context, msg model.SinkMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSink) all() []model.SinkMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SinkMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func newTestMonitor(t *testing.T, sink Sink) (*Monitor, *Session, *SessionStore) {
	t.Helper()
	store := NewSessionStore(time.Hour, time.Hour)
	def, ok := DefaultCatalog().Get(WorkflowCompetitorScan)
	require.True(t, ok)

	session := NewSession(def.ID, uuid.New(), nil)
	require.True(t, session.MarkRunning())
	store.Put(session)

	m := NewMonitor(session, def, store, sink, logger.NewNop())
	m.SetInterval(time.Millisecond)
	return m, session, store
}

func TestMonitorRunToCompletion(t *testing.T) {
	sink := &recordingSink{}
	m, session, _ := newTestMonitor(t, sink)

	var terminalSnap Snapshot
	terminalSeen := make(chan struct{})
	m.OnTerminal = func(snap Snapshot) {
		terminalSnap = snap
		close(terminalSeen)
	}

	m.Run(context.Background())

	select {
	case <-terminalSeen:
	default:
		t.Fatal("OnTerminal was not invoked")
	}

	assert.Equal(t, StatusCompleted, session.Status())
	assert.Equal(t, StatusCompleted, terminalSnap.Status)
	assert.Equal(t, 100, terminalSnap.Progress)

	msgs := sink.all()
	// 5 progress checkpoints plus the workflow_completed message.
	require.Len(t, msgs, 6)

	wantPcts := []int{20, 40, 60, 80, 100}
	for i, pct := range wantPcts {
		assert.Equal(t, model.MessageWorkflowProgress, msgs[i].Type)
		assert.EqualValues(t, pct, msgs[i].Data["progress_percent"])
	}
	assert.Equal(t, model.MessageWorkflowCompleted, msgs[5].Type)
	sid := session.ID()
	assert.Equal(t, &sid, msgs[5].SessionID)
}

func TestMonitorStopsOnCancel(t *testing.T) {
	sink := &recordingSink{}
	m, session, _ := newTestMonitor(t, sink)
	m.SetInterval(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Run(context.Background())
		close(done)
	}()

	// Cancel while the monitor is sleeping towards its first checkpoint.
	time.Sleep(5 * time.Millisecond)
	require.True(t, session.Cancel())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}

	assert.Equal(t, StatusCancelled, session.Status())
	for _, msg := range sink.all() {
		assert.NotEqual(t, model.MessageWorkflowCompleted, msg.Type,
			"cancelled session must never complete")
	}
}

func TestMonitorStopsWhenSessionEvicted(t *testing.T) {
	sink := &recordingSink{}
	m, session, store := newTestMonitor(t, sink)
	m.SetInterval(10 * time.Millisecond)

	store.Delete(session.ID())
	m.Run(context.Background())

	assert.Empty(t, sink.all())
	assert.Equal(t, StatusRunning, session.Status())
}

func TestMonitorStopsOnContextDone(t *testing.T) {
	sink := &recordingSink{}
	m, session, _ := newTestMonitor(t, sink)
	m.SetInterval(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Run(ctx)

	assert.Empty(t, sink.all())
	assert.Equal(t, StatusRunning, session.Status())
}

func TestMonitorSinkFailureIsNonFatal(t *testing.T) {
	sink := &recordingSink{fail: true}
	m, session, _ := newTestMonitor(t, sink)

	m.Run(context.Background())

	// The run still drives the session to completion even when every
	// sink write fails.
	assert.Equal(t, StatusCompleted, session.Status())
}
