package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vc-intel-be/internal/dto"
	"vc-intel-be/internal/model"
	"vc-intel-be/internal/pkg/logger"
	"vc-intel-be/pkg/auth"
	"vc-intel-be/pkg/events"
	pktNats "vc-intel-be/pkg/nats"
	"vc-intel-be/pkg/workflow"

	"github.com/google/uuid"
)

type IWorkflowService interface {
	ListWorkflows(role auth.Role) ([]dto.WorkflowListItem, error)
	Trigger(ctx context.Context, subscriberID uuid.UUID, role auth.Role, req *dto.TriggerWorkflowRequest) (*dto.TriggerWorkflowResponse, error)
	GetStatus(ctx context.Context, sessionID uuid.UUID) (*dto.SessionStatusResponse, error)
	Cancel(ctx context.Context, sessionID uuid.UUID, role auth.Role) error
}

type workflowService struct {
	catalog          *workflow.Catalog
	store            *workflow.SessionStore
	sink             workflow.Sink
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	instanceID       string
	logger           logger.ILogger
}

func NewWorkflowService(
	catalog *workflow.Catalog,
	store *workflow.SessionStore,
	sink workflow.Sink,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	instanceID string,
	log logger.ILogger,
) IWorkflowService {
	return &workflowService{
		catalog:          catalog,
		store:            store,
		sink:             sink,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		instanceID:       instanceID,
		logger:           log,
	}
}

// ListWorkflows is open to every known role; it only reads the static
// catalog.
func (s *workflowService) ListWorkflows(role auth.Role) ([]dto.WorkflowListItem, error) {
	if !auth.Can(role, auth.OpListWorkflows) {
		return nil, workflow.ErrPermissionDenied
	}
	defs := s.catalog.All()
	items := make([]dto.WorkflowListItem, 0, len(defs))
	for _, d := range defs {
		items = append(items, dto.WorkflowListItem{
			ID:                      d.ID,
			DisplayName:             d.DisplayName,
			ExpectedDurationSeconds: d.ExpectedDurationSeconds,
		})
	}
	return items, nil
}

// Trigger inserts a session and hands the external engine call to the
// trigger consumer via the job topic, so the caller gets its
// acknowledgment before the workflow does any work.
func (s *workflowService) Trigger(ctx context.Context, subscriberID uuid.UUID, role auth.Role, req *dto.TriggerWorkflowRequest) (*dto.TriggerWorkflowResponse, error) {
	if !auth.Can(role, auth.OpTriggerWorkflow) {
		return nil, workflow.ErrPermissionDenied
	}

	def, ok := s.catalog.Get(req.WorkflowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", workflow.ErrUnknownWorkflow, req.WorkflowID)
	}

	session := workflow.NewSession(def.ID, subscriberID, req.Payload)
	s.store.Put(session)

	jobJson, err := json.Marshal(dto.TriggerJobMessage{SessionID: session.ID()})
	if err != nil {
		s.store.Delete(session.ID())
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, jobJson); err != nil {
		s.store.Delete(session.ID())
		return nil, fmt.Errorf("queue trigger job: %w", err)
	}

	sessionID := session.ID()
	startMsg := model.NewSinkMessage(model.MessageWorkflowStarted, subscriberID, &sessionID, map[string]interface{}{
		"workflow_id":        def.ID,
		"workflow_name":      def.DisplayName,
		"estimated_duration": def.ExpectedDurationSeconds,
	})
	if err := s.sink.Publish(ctx, startMsg); err != nil {
		s.logger.Warn("WorkflowService", "Failed to push workflow_started", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}

	s.publishLifecycleEvent(ctx, events.TypeWorkflowStarted, session, def.ID)

	s.logger.Info("WorkflowService", "Workflow triggered", map[string]interface{}{
		"session_id":  sessionID,
		"workflow_id": def.ID,
	})

	return &dto.TriggerWorkflowResponse{
		SessionID:         sessionID,
		WorkflowID:        def.ID,
		Status:            session.Status(),
		EstimatedDuration: def.ExpectedDurationSeconds,
	}, nil
}

func (s *workflowService) GetStatus(ctx context.Context, sessionID uuid.UUID) (*dto.SessionStatusResponse, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, workflow.ErrSessionNotFound
	}
	snap := session.Snapshot()
	return &dto.SessionStatusResponse{
		SessionID:       snap.SessionID,
		WorkflowID:      snap.WorkflowID,
		Status:          snap.Status,
		ProgressPercent: snap.Progress,
		Error:           snap.Error,
		InputPayload:    snap.Payload,
		CreatedAt:       snap.CreatedAt,
		UpdatedAt:       snap.UpdatedAt,
	}, nil
}

// Cancel is cooperative: it flips the session to cancelled and closes
// its done channel; the owning monitor observes that at its next
// checkpoint boundary. Terminal sessions are not cancellable and
// report not-found.
func (s *workflowService) Cancel(ctx context.Context, sessionID uuid.UUID, role auth.Role) error {
	if !auth.Can(role, auth.OpCancelWorkflow) {
		return workflow.ErrPermissionDenied
	}

	session, ok := s.store.Get(sessionID)
	if !ok {
		return workflow.ErrSessionNotFound
	}
	if !session.Cancel() {
		// Already terminal; treated the same as absent.
		return workflow.ErrSessionNotFound
	}
	s.store.MarkTerminal(session)

	cancelMsg := model.NewSinkMessage(model.MessageWorkflowCancelled, session.SubscriberID(), &sessionID, map[string]interface{}{
		"workflow_id": session.WorkflowID(),
	})
	if err := s.sink.Publish(ctx, cancelMsg); err != nil {
		s.logger.Warn("WorkflowService", "Failed to push workflow_cancelled", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}

	s.publishLifecycleEvent(ctx, events.TypeWorkflowCancelled, session, session.WorkflowID())

	s.logger.Info("WorkflowService", "Workflow cancelled", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}

// publishLifecycleEvent mirrors a state transition onto NATS. Failures
// are logged, never surfaced: the bus is auxiliary to the request.
func (s *workflowService) publishLifecycleEvent(ctx context.Context, eventType string, session *workflow.Session, workflowID string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"session_id":      session.ID().String(),
			"subscriber_id":   session.SubscriberID().String(),
			"workflow_id":     workflowID,
			"origin_instance": s.instanceID,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("WorkflowService", "Failed to publish lifecycle event", map[string]interface{}{
			"type": eventType, "error": err.Error(),
		})
	}
}
