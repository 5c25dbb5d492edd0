package events

import "time"

// Workflow lifecycle event type codes published on the event bus.
const (
	TypeWorkflowStarted   = "WORKFLOW_STARTED"
	TypeWorkflowCompleted = "WORKFLOW_COMPLETED"
	TypeWorkflowFailed    = "WORKFLOW_FAILED"
	TypeWorkflowCancelled = "WORKFLOW_CANCELLED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the codebase.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
