package service

import (
	"context"
	"encoding/json"
	"strings"

	"vc-intel-be/internal/model"
	"vc-intel-be/internal/pkg/logger"
	"vc-intel-be/pkg/events"
	pktNats "vc-intel-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery is the local-only push surface the hub exposes
// for messages that already travelled through the event bus.
type NotificationDelivery interface {
	DeliverLocal(subscriberID uuid.UUID, data []byte)
}

type INotificationService interface {
	Start() error
}

// notificationService bridges lifecycle events from the NATS mirror
// back onto local notification connections. Events stamped with this
// instance's id are skipped because the originating instance already
// pushed them straight to its sink; only events from other instances
// are (re)delivered here.
type notificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	instanceID string
	logger     logger.ILogger
}

func NewNotificationService(subscriber *pktNats.Subscriber, delivery NotificationDelivery, instanceID string, log logger.ILogger) *notificationService {
	return &notificationService{
		subscriber: subscriber,
		delivery:   delivery,
		instanceID: instanceID,
		logger:     log,
	}
}

func (ns *notificationService) Start() error {
	return ns.subscriber.Subscribe("workflow.>", "notif-delivery-worker", ns.handleEvent)
}

func (ns *notificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	if origin, _ := payload["origin_instance"].(string); origin == ns.instanceID {
		return nil
	}

	subscriberRaw, _ := payload["subscriber_id"].(string)
	subscriberID, err := uuid.Parse(subscriberRaw)
	if err != nil {
		// Malformed events are dropped, not retried.
		ns.logger.Warn("NotificationService", "Event without valid subscriber_id", map[string]interface{}{
			"type": event.EventType(),
		})
		return nil
	}

	msgType, ok := sinkTypeForEvent(event.EventType())
	if !ok {
		return nil
	}

	var sessionID *uuid.UUID
	if raw, _ := payload["session_id"].(string); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			sessionID = &id
		}
	}

	msg := model.NewSinkMessage(msgType, subscriberID, sessionID, map[string]interface{}{
		"workflow_id": payload["workflow_id"],
	})
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ns.delivery.DeliverLocal(subscriberID, data)
	return nil
}

// sinkTypeForEvent maps a bus subject like "workflow.WORKFLOW_COMPLETED"
// to the corresponding sink message type.
func sinkTypeForEvent(subject string) (string, bool) {
	code := subject
	if idx := strings.LastIndex(subject, "."); idx >= 0 {
		code = subject[idx+1:]
	}
	switch code {
	case events.TypeWorkflowStarted:
		return model.MessageWorkflowStarted, true
	case events.TypeWorkflowCompleted:
		return model.MessageWorkflowCompleted, true
	case events.TypeWorkflowFailed:
		return model.MessageWorkflowFailed, true
	case events.TypeWorkflowCancelled:
		return model.MessageWorkflowCancelled, true
	}
	return "", false
}
