package model

import (
	"time"

	"github.com/google/uuid"
)

// Sink message types pushed over the notification channel.
const (
	MessageWorkflowStarted   = "workflow_started"
	MessageWorkflowProgress  = "workflow_progress"
	MessageWorkflowCompleted = "workflow_completed"
	MessageWorkflowFailed    = "workflow_failed"
	MessageWorkflowCancelled = "workflow_cancelled"
	MessageError             = "error"
)

// SinkMessage is one JSON message written to a notification sink.
// SubscriberID routes the message to the right connection; it is not
// part of the wire payload.
type SinkMessage struct {
	Type      string                 `json:"type"`
	SessionID *uuid.UUID             `json:"session_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`

	SubscriberID uuid.UUID `json:"-"`
}

// NewSinkMessage stamps a message with the current time.
func NewSinkMessage(msgType string, subscriberID uuid.UUID, sessionID *uuid.UUID, data map[string]interface{}) SinkMessage {
	return SinkMessage{
		Type:         msgType,
		SessionID:    sessionID,
		Timestamp:    time.Now().UTC(),
		Data:         data,
		SubscriberID: subscriberID,
	}
}
