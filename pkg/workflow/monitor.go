package workflow

import (
	"context"
	"fmt"
	"time"

	"vc-intel-be/internal/model"
	"vc-intel-be/internal/pkg/logger"
)

// Sink is the push-delivery abstraction progress messages are written
// to. The core does not own the transport behind it.
type Sink interface {
	Publish(ctx context.Context, msg model.SinkMessage) error
}

// DefaultCheckpoints is the fixed progress milestone sequence.
var DefaultCheckpoints = []int{20, 40, 60, 80, 100}

// Monitor owns one session's advancement through the checkpoint
// sequence. Exactly one monitor runs per session; it is the only
// writer of the session's status besides the explicit cancel path.
//
// The external engine exposes no progress channel, so checkpoints are
// simulated by dividing the expected duration evenly.
type Monitor struct {
	session     *Session
	definition  Definition
	store       *SessionStore
	sink        Sink
	checkpoints []int
	interval    time.Duration
	logger      logger.ILogger

	// OnTerminal, when set, is invoked once with the final snapshot
	// (completed only; failure and cancellation are reported by the
	// paths that cause them).
	OnTerminal func(Snapshot)
}

// NewMonitor creates a monitor for a running session.
func NewMonitor(session *Session, def Definition, store *SessionStore, sink Sink, log logger.ILogger) *Monitor {
	checkpoints := DefaultCheckpoints
	interval := time.Duration(def.ExpectedDurationSeconds) * time.Second / time.Duration(len(checkpoints))
	return &Monitor{
		session:     session,
		definition:  def,
		store:       store,
		sink:        sink,
		checkpoints: checkpoints,
		interval:    interval,
		logger:      log,
	}
}

// SetInterval overrides the checkpoint interval. Used by tests to run
// the full sequence quickly.
func (m *Monitor) SetInterval(d time.Duration) {
	m.interval = d
}

// Run advances the session checkpoint by checkpoint until completion
// or cancellation. Cancellation is cooperative: it is observed at each
// sleep boundary, so the monitor may run up to one interval past a
// cancel request. Sink write failures are logged and do not abort the
// run.
func (m *Monitor) Run(ctx context.Context) {
	sessionID := m.session.ID()

	for _, pct := range m.checkpoints {
		select {
		case <-ctx.Done():
			return
		case <-m.session.Done():
			// Cancelled (or otherwise finished) between checkpoints.
			return
		case <-time.After(m.interval):
		}

		if _, ok := m.store.Get(sessionID); !ok {
			// Removed from the table; stop without further messages.
			return
		}

		if pct < 100 {
			if !m.session.SetProgress(pct) {
				return
			}
			m.emitProgress(ctx, pct, StatusRunning)
			continue
		}

		// Final checkpoint: flip to completed before announcing it.
		if !m.session.Complete() {
			return
		}
		m.store.MarkTerminal(m.session)
		m.emitProgress(ctx, pct, StatusCompleted)
		m.emit(ctx, model.MessageWorkflowCompleted, map[string]interface{}{
			"workflow_id": m.session.WorkflowID(),
		})
		if m.OnTerminal != nil {
			m.OnTerminal(m.session.Snapshot())
		}
	}
}

func (m *Monitor) emitProgress(ctx context.Context, pct int, status Status) {
	m.emit(ctx, model.MessageWorkflowProgress, map[string]interface{}{
		"progress_percent": pct,
		"message":          fmt.Sprintf("%s: %d%% complete", m.definition.DisplayName, pct),
		"status":           string(status),
	})
}

func (m *Monitor) emit(ctx context.Context, msgType string, data map[string]interface{}) {
	id := m.session.ID()
	msg := model.NewSinkMessage(msgType, m.session.SubscriberID(), &id, data)
	if err := m.sink.Publish(ctx, msg); err != nil {
		m.logger.Warn("Monitor", "Sink write failed", map[string]interface{}{
			"session_id": id,
			"type":       msgType,
			"error":      err.Error(),
		})
	}
}
