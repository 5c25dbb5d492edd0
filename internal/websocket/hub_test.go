package websocket

import (
	"context"
	"testing"
	"time"

	"vc-intel-be/internal/model"
	"vc-intel-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	h := NewHub(nil, logger.NewNop())
	go h.Run()
	return h
}

func registerClient(t *testing.T, h *Hub, subscriberID uuid.UUID, buffer int) *Client {
	t.Helper()
	c := &Client{Hub: h, SubscriberID: subscriberID, Send: make(chan []byte, buffer)}
	h.register <- c
	waitFor(t, func() bool { return localClients(h, subscriberID) > 0 })
	return c
}

func localClients(h *Hub, subscriberID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[subscriberID])
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met within 1s")
}

func sinkMsg(subscriberID uuid.UUID) model.SinkMessage {
	return model.NewSinkMessage(model.MessageWorkflowProgress, subscriberID, nil, map[string]interface{}{
		"progress_pct": 40,
	})
}

func TestPublishDeliversToLocalClient(t *testing.T) {
	h := newTestHub()
	subscriberID := uuid.New()
	c := registerClient(t, h, subscriberID, 4)

	require.NoError(t, h.Publish(context.Background(), sinkMsg(subscriberID)))

	select {
	case data := <-c.Send:
		assert.Contains(t, string(data), model.MessageWorkflowProgress)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestPublishDropsSlowClientWithoutPanic(t *testing.T) {
	h := newTestHub()
	subscriberID := uuid.New()
	c := registerClient(t, h, subscriberID, 1)

	// Fill the buffer so the next delivery hits a slow consumer.
	c.Send <- []byte(`{"type":"workflow_started"}`)

	require.NoError(t, h.Publish(context.Background(), sinkMsg(subscriberID)))

	// The slow client is torn down by the hub loop, which also closes
	// its Send channel exactly once.
	waitFor(t, func() bool { return localClients(h, subscriberID) == 0 })

	<-c.Send
	_, open := <-c.Send
	assert.False(t, open)
}

func TestPublishSurvivesSlowClientAlongsideHealthyOne(t *testing.T) {
	h := newTestHub()
	slowID := uuid.New()
	healthyID := uuid.New()
	slow := registerClient(t, h, slowID, 1)
	healthy := registerClient(t, h, healthyID, 4)

	slow.Send <- []byte(`{"type":"workflow_started"}`)

	require.NoError(t, h.Publish(context.Background(), sinkMsg(slowID)))
	waitFor(t, func() bool { return localClients(h, slowID) == 0 })

	// Later publishes keep flowing to remaining subscribers.
	require.NoError(t, h.Publish(context.Background(), sinkMsg(healthyID)))

	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("healthy client starved after slow client removal")
	}
}

func TestBroadcastDropsSlowClientWithoutDeadlock(t *testing.T) {
	h := newTestHub()
	slowID := uuid.New()
	healthyID := uuid.New()
	slow := registerClient(t, h, slowID, 1)
	healthy := registerClient(t, h, healthyID, 4)

	slow.Send <- []byte(`{"type":"workflow_started"}`)

	require.NoError(t, h.Broadcast(context.Background(), sinkMsg(uuid.Nil)))
	waitFor(t, func() bool { return localClients(h, slowID) == 0 })

	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached healthy client")
	}
}

func TestUnregisterUnknownClientIsNoOp(t *testing.T) {
	h := newTestHub()
	subscriberID := uuid.New()
	c := registerClient(t, h, subscriberID, 1)

	h.unregister <- c
	waitFor(t, func() bool { return localClients(h, subscriberID) == 0 })

	// A second unregister of the same client must not close Send again.
	h.unregister <- c
	require.NoError(t, h.Publish(context.Background(), sinkMsg(subscriberID)))

	_, open := <-c.Send
	assert.False(t, open)
}
