package service

import (
	"context"
	"encoding/json"
	"time"

	"vc-intel-be/internal/dto"
	"vc-intel-be/internal/model"
	"vc-intel-be/internal/pkg/logger"
	"vc-intel-be/internal/pkg/mailer"
	"vc-intel-be/pkg/events"
	pktNats "vc-intel-be/pkg/nats"
	"vc-intel-be/pkg/workflow"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type ITriggerConsumerService interface {
	Consume(ctx context.Context) error
}

// triggerConsumerService drains the trigger job topic with a single
// goroutine. It performs the bounded external engine call and, on
// acceptance, starts the session's progress monitor. Keeping this off
// the request path is what makes triggering asynchronous.
type triggerConsumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	store          *workflow.SessionStore
	catalog        *workflow.Catalog
	engine         workflow.Engine
	sink           workflow.Sink
	triggerTimeout time.Duration
	eventPublisher *pktNats.Publisher
	emailService   mailer.IEmailService
	operatorEmail  string
	instanceID     string
	logger         logger.ILogger

	// monitorInterval overrides the computed checkpoint interval when
	// positive. Tests use it to run full sessions in milliseconds.
	monitorInterval time.Duration
}

func NewTriggerConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	store *workflow.SessionStore,
	catalog *workflow.Catalog,
	engine workflow.Engine,
	sink workflow.Sink,
	triggerTimeout time.Duration,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	operatorEmail string,
	instanceID string,
	log logger.ILogger,
) *triggerConsumerService {
	return &triggerConsumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		store:          store,
		catalog:        catalog,
		engine:         engine,
		sink:           sink,
		triggerTimeout: triggerTimeout,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		operatorEmail:  operatorEmail,
		instanceID:     instanceID,
		logger:         log,
	}
}

// SetMonitorInterval forces a fixed checkpoint interval on every
// monitor this consumer spawns.
func (cs *triggerConsumerService) SetMonitorInterval(d time.Duration) {
	cs.monitorInterval = d
}

func (cs *triggerConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *triggerConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TriggerJobMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("TriggerConsumer", "Failed to unmarshal trigger job", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	session, ok := cs.store.Get(payload.SessionID)
	if !ok {
		// Cancelled and evicted before we got to it.
		msg.Ack()
		return
	}
	if session.Status() != workflow.StatusInitializing {
		// Cancelled between enqueue and consume.
		msg.Ack()
		return
	}

	def, ok := cs.catalog.Get(session.WorkflowID())
	if !ok {
		cs.failSession(ctx, session, "workflow definition missing from catalog")
		msg.Ack()
		return
	}

	// Bounded call: an engine that hangs becomes a failure, not a
	// stuck session.
	callCtx, cancel := context.WithTimeout(ctx, cs.triggerTimeout)
	err := cs.engine.Trigger(callCtx, def.ExternalTriggerRef, session.Payload())
	cancel()

	if err != nil {
		cs.logger.Error("TriggerConsumer", "External trigger failed", map[string]interface{}{
			"session_id": session.ID(),
			"error":      err.Error(),
		})
		cs.failSession(ctx, session, err.Error())
		msg.Ack()
		return
	}

	if !session.MarkRunning() {
		// Cancelled during the engine call; never spawn the monitor.
		msg.Ack()
		return
	}

	monitor := workflow.NewMonitor(session, def, cs.store, cs.sink, cs.logger)
	if cs.monitorInterval > 0 {
		monitor.SetInterval(cs.monitorInterval)
	}
	monitor.OnTerminal = func(snap workflow.Snapshot) {
		cs.notifyTerminal(ctx, events.TypeWorkflowCompleted, snap, def)
	}
	go monitor.Run(ctx)

	cs.logger.Info("TriggerConsumer", "Monitor started", map[string]interface{}{
		"session_id":  session.ID(),
		"workflow_id": def.ID,
	})
	msg.Ack()
}

// failSession moves a session to failed and forwards the error to the
// sink; the monitor is never spawned for it.
func (cs *triggerConsumerService) failSession(ctx context.Context, session *workflow.Session, errMsg string) {
	if !session.Fail(errMsg) {
		return
	}
	cs.store.MarkTerminal(session)

	sessionID := session.ID()
	errEvent := model.NewSinkMessage(model.MessageError, session.SubscriberID(), &sessionID, map[string]interface{}{
		"workflow_id": session.WorkflowID(),
		"message":     errMsg,
	})
	if err := cs.sink.Publish(ctx, errEvent); err != nil {
		cs.logger.Warn("TriggerConsumer", "Failed to push error message", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}
	failMsg := model.NewSinkMessage(model.MessageWorkflowFailed, session.SubscriberID(), &sessionID, map[string]interface{}{
		"workflow_id": session.WorkflowID(),
		"error":       errMsg,
	})
	if err := cs.sink.Publish(ctx, failMsg); err != nil {
		cs.logger.Warn("TriggerConsumer", "Failed to push workflow_failed", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}

	def, _ := cs.catalog.Get(session.WorkflowID())
	cs.notifyTerminal(ctx, events.TypeWorkflowFailed, session.Snapshot(), def)
}

// notifyTerminal mirrors a terminal transition to NATS and, when an
// operator inbox is configured, sends the outcome mail. Both are
// best-effort.
func (cs *triggerConsumerService) notifyTerminal(ctx context.Context, eventType string, snap workflow.Snapshot, def workflow.Definition) {
	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: eventType,
			Data: map[string]interface{}{
				"session_id":      snap.SessionID.String(),
				"subscriber_id":   snap.SubscriberID.String(),
				"workflow_id":     snap.WorkflowID,
				"origin_instance": cs.instanceID,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("TriggerConsumer", "Failed to publish terminal event", map[string]interface{}{
				"type": eventType, "error": err.Error(),
			})
		}
	}

	if cs.emailService != nil && cs.operatorEmail != "" {
		name := def.DisplayName
		if name == "" {
			name = snap.WorkflowID
		}
		if err := cs.emailService.SendWorkflowOutcome(cs.operatorEmail, name, snap.SessionID.String(), string(snap.Status), snap.Error); err != nil {
			cs.logger.Warn("TriggerConsumer", "Failed to send outcome mail", map[string]interface{}{
				"session_id": snap.SessionID, "error": err.Error(),
			})
		}
	}
}
