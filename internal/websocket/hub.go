package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"vc-intel-be/internal/model"
	"vc-intel-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans sink messages out to connected subscribers. Each subscriber
// may hold several connections (multi-device); each connection has its
// own buffered Send channel drained by a single writePump goroutine,
// so writes to one socket are never interleaved.
type Hub struct {
	// Registered clients map: SubscriberID -> list of clients
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out. Optional.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SubscriberID] = append(h.clients[client.SubscriberID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"subscriber_id": client.SubscriberID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SubscriberID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SubscriberID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SubscriberID]) == 0 {
					delete(h.clients, client.SubscriberID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"subscriber_id": client.SubscriberID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish implements the notification sink contract: the message is
// serialized once and delivered to every local connection of the
// target subscriber, then mirrored to Redis for other instances.
func (h *Hub) Publish(ctx context.Context, msg model.SinkMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.deliverLocal(msg.SubscriberID, data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_subscriber_id": msg.SubscriberID.String(),
			"message":              data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(ctx, "cluster_events", jsonPayload)
	}
	return nil
}

// Broadcast sends a message to every connected client on this
// instance and mirrors it cluster-wide.
func (h *Hub) Broadcast(ctx context.Context, msg model.SinkMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			h.send(client, data)
		}
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_subscriber_id": "*", // Wildcard for broadcast
			"message":              data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(ctx, "cluster_events", jsonPayload)
	}
	return nil
}

// DeliverLocal pushes a pre-serialized message to a subscriber's local
// connections only, without the Redis mirror. Used when the message
// already travelled through the cluster channel.
func (h *Hub) DeliverLocal(subscriberID uuid.UUID, data []byte) {
	h.deliverLocal(subscriberID, data)
}

func (h *Hub) deliverLocal(subscriberID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[subscriberID] {
		h.send(client, data)
	}
}

// send pushes data onto a client's buffer without blocking. A full
// buffer means the connection is too slow to keep up; the client is
// queued for removal and the message dropped. Only Run closes Send
// channels, so a client queued twice is removed once.
func (h *Hub) send(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"subscriber_id": client.SubscriberID})
		go func() { h.unregister <- client }()
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to cluster_events; messages carry the
	// target subscriber so each instance delivers only to connections
	// it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetSubscriberID string          `json:"target_subscriber_id"`
			Message            json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetSubscriberID == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					h.send(client, payload.Message)
				}
			}
			h.mu.RUnlock()
			continue
		}

		uid, err := uuid.Parse(payload.TargetSubscriberID)
		if err != nil {
			continue
		}
		h.deliverLocal(uid, payload.Message)
	}
}
