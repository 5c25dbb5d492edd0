package dto

import (
	"time"

	"vc-intel-be/pkg/workflow"

	"github.com/google/uuid"
)

type TriggerWorkflowRequest struct {
	WorkflowID string                 `json:"workflow_id" validate:"required"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

type TriggerWorkflowResponse struct {
	SessionID         uuid.UUID       `json:"session_id"`
	WorkflowID        string          `json:"workflow_id"`
	Status            workflow.Status `json:"status"`
	EstimatedDuration int             `json:"estimated_duration"`
}

type SessionStatusResponse struct {
	SessionID       uuid.UUID              `json:"session_id"`
	WorkflowID      string                 `json:"workflow_id"`
	Status          workflow.Status        `json:"status"`
	ProgressPercent int                    `json:"progress_percent"`
	Error           string                 `json:"error,omitempty"`
	InputPayload    map[string]interface{} `json:"input_payload,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type WorkflowListItem struct {
	ID                      string `json:"id"`
	DisplayName             string `json:"display_name"`
	ExpectedDurationSeconds int    `json:"expected_duration_seconds"`
}

// TriggerJobMessage is the payload published on the in-process trigger
// topic; the consumer performs the external engine call.
type TriggerJobMessage struct {
	SessionID uuid.UUID `json:"session_id"`
}
