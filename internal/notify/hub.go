package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event is pushed to a user's open websocket connections.
type Event struct {
	Type       string     `json:"type"`
	NoteID     uuid.UUID  `json:"noteId"`
	NoteName   string     `json:"noteName"`
	ReminderAt *time.Time `json:"reminderAt,omitempty"`
	FiredAt    time.Time  `json:"firedAt"`
}

const EventReminderDue = "reminder.due"

type userEvent struct {
	userID uuid.UUID
	event  Event
}

// Hub fans reminder events out to the owning user's connected clients.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan userEvent
	done       chan struct{}
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan userEvent, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true

		case client := <-h.unregister:
			if conns, ok := h.clients[client.userID]; ok && conns[client] {
				delete(conns, client)
				close(client.send)
				if len(conns) == 0 {
					delete(h.clients, client.userID)
				}
			}

		case ue := <-h.events:
			data, err := json.Marshal(ue.event)
			if err != nil {
				h.log.Error("failed to marshal event", "error", err)
				continue
			}
			for client := range h.clients[ue.userID] {
				select {
				case client.send <- data:
				default:
					// Slow consumer, drop the event rather than block the hub.
				}
			}

		case <-ctx.Done():
			// Unblock any client goroutine still trying to register or
			// unregister before the bookkeeping loop goes away.
			close(h.done)
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			return
		}
	}
}

// add attaches a client to the hub. Returns false when the hub has
// already shut down, in which case the caller owns the connection.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// remove detaches a client. Safe to call after the hub has shut down.
func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an event for the user's connections. Never blocks; with
// no listeners the event is simply dropped.
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	select {
	case h.events <- userEvent{userID: userID, event: event}:
	default:
		h.log.Warn("notify hub backlogged, dropping event", "userId", userID)
	}
}
