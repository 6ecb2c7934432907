package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/saiinfotech/catalog-be/internal/models"
)

// Hub maintains the set of active clients and broadcasts messages to them.
// Every connected client receives every message; the feed carries audit
// events and stats snapshots for the admin dashboard.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for broadcast to all clients.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastJSON marshals a message and queues it for broadcast.
func (h *Hub) BroadcastJSON(action string, payload interface{}) {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to marshal websocket message")
		return
	}
	h.Broadcast <- data
}

// BroadcastEvent pushes an audit event to every connected dashboard.
func (h *Hub) BroadcastEvent(event models.Event) {
	h.BroadcastJSON("event", event)
}

// BroadcastStats pushes a stats snapshot to every connected dashboard.
func (h *Hub) BroadcastStats(stats models.ProductStats) {
	h.BroadcastJSON("stats", stats)
}
