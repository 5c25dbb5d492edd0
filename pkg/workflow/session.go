package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status of a workflow session. Terminal statuses are never revisited.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusRunning      Status = "running"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	StatusCancelled    Status = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Session tracks one triggered workflow execution. Status and progress
// are written by the owning monitor goroutine only, with the single
// exception of Cancel, which is caller-driven; the internal mutex makes
// concurrent reads from the status endpoint safe.
type Session struct {
	id           uuid.UUID
	workflowID   string
	subscriberID uuid.UUID
	payload      map[string]interface{}
	createdAt    time.Time

	mu        sync.RWMutex
	status    Status
	progress  int
	errMsg    string
	updatedAt time.Time
	done      chan struct{}
}

// Snapshot is a point-in-time, copyable view of a session.
type Snapshot struct {
	SessionID    uuid.UUID              `json:"session_id"`
	WorkflowID   string                 `json:"workflow_id"`
	SubscriberID uuid.UUID              `json:"-"`
	Status       Status                 `json:"status"`
	Progress     int                    `json:"progress_percent"`
	Error        string                 `json:"error,omitempty"`
	Payload      map[string]interface{} `json:"input_payload,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// NewSession creates a session in the initializing state with a fresh
// unique id.
func NewSession(workflowID string, subscriberID uuid.UUID, payload map[string]interface{}) *Session {
	now := time.Now().UTC()
	return &Session{
		id:           uuid.New(),
		workflowID:   workflowID,
		subscriberID: subscriberID,
		payload:      payload,
		createdAt:    now,
		status:       StatusInitializing,
		updatedAt:    now,
		done:         make(chan struct{}),
	}
}

func (s *Session) ID() uuid.UUID           { return s.id }
func (s *Session) WorkflowID() string      { return s.workflowID }
func (s *Session) SubscriberID() uuid.UUID { return s.subscriberID }

// Payload returns the trigger input as passed in at creation.
func (s *Session) Payload() map[string]interface{} { return s.payload }

// Done is closed when the session reaches a terminal state. The
// monitor selects on it to observe cancellation between checkpoints.
func (s *Session) Done() <-chan struct{} { return s.done }

// Snapshot returns a consistent copy of the mutable fields.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		SessionID:    s.id,
		WorkflowID:   s.workflowID,
		SubscriberID: s.subscriberID,
		Status:       s.status,
		Progress:     s.progress,
		Error:        s.errMsg,
		Payload:      s.payload,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
	}
}

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// MarkRunning moves initializing -> running. Returns false if the
// session already left the initializing state (e.g. cancelled before
// the external trigger completed).
func (s *Session) MarkRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusInitializing {
		return false
	}
	s.status = StatusRunning
	s.updatedAt = time.Now().UTC()
	return true
}

// SetProgress records a checkpoint percentage on a non-terminal
// session.
func (s *Session) SetProgress(pct int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return false
	}
	s.progress = pct
	s.updatedAt = time.Now().UTC()
	return true
}

// Complete moves the session to completed. No-op on terminal sessions.
func (s *Session) Complete() bool {
	return s.finish(StatusCompleted, "")
}

// Fail moves the session to failed with an error message.
func (s *Session) Fail(errMsg string) bool {
	return s.finish(StatusFailed, errMsg)
}

// Cancel moves the session to cancelled. Returns false when the
// session is already terminal, which callers surface as not-found.
func (s *Session) Cancel() bool {
	return s.finish(StatusCancelled, "")
}

func (s *Session) finish(status Status, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return false
	}
	s.status = status
	s.errMsg = errMsg
	if status == StatusCompleted {
		s.progress = 100
	}
	s.updatedAt = time.Now().UTC()
	close(s.done)
	return true
}
