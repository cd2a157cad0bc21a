// Package live fans complaint lifecycle events out to connected staff
// dashboards over WebSocket. Events arrive through Redis pub/sub, so every
// instance behind a load balancer sees every event.
package live

import (
	"encoding/json"
	"log"

	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"
)

// Hub tracks connected dashboard clients and routes events to the ones whose
// department scope matches. Registration, unregistration and dispatch all
// run on the single Run goroutine.
type Hub struct {
	clients map[*Client]bool

	RegisterCh   chan *Client
	UnregisterCh chan *Client
	eventCh      chan models.LifecycleEvent

	Storage *storage.Service
}

func NewHub(s *storage.Service) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		RegisterCh:   make(chan *Client),
		UnregisterCh: make(chan *Client),
		eventCh:      make(chan models.LifecycleEvent),
		Storage:      s,
	}
}

// Run is the hub's dispatcher loop. Call once, in its own goroutine.
func (h *Hub) Run() {
	h.startPubSubListener()

	for {
		select {
		case client := <-h.RegisterCh:
			h.clients[client] = true
			log.Printf("INFO: Dashboard client connected (user %s, scope %q)", client.UserID, client.Department)

		case client := <-h.UnregisterCh:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}

		case event := <-h.eventCh:
			for client := range h.clients {
				if !client.wantsEvent(event) {
					continue
				}
				select {
				case client.Send <- event:
				default:
					// Slow client: drop it rather than block the hub.
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// startPubSubListener subscribes to the Redis events channel and feeds the
// dispatcher. Runs until the subscription is closed.
func (h *Hub) startPubSubListener() {
	go func() {
		pubsub := h.Storage.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var event models.LifecycleEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("ERROR: Failed to decode lifecycle event: %v", err)
				continue
			}
			h.eventCh <- event
		}
	}()
}
