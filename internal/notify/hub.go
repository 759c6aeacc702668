package notify

import (
	"sync"

	"github.com/anonto42/pulsefeed/backend/internal/models"
	"github.com/google/uuid"
)

// Event is the payload pushed to live subscribers when a notification
// is recorded. It carries the full enriched record so clients can
// update in place without re-fetching.
type Event struct {
	Notification models.Notification `json:"notification"`
	Sender       models.UserCompact  `json:"sender"`
}

// SessionID identifies one live push session.
type SessionID = uuid.UUID

// subscriberBuffer bounds each subscriber channel. A subscriber that
// falls this far behind starts dropping events; the durable store
// remains the source of truth, so a dropped push is recovered on the
// next list fetch.
const subscriberBuffer = 16

type subscriber struct {
	recipientID uint
	ch          chan Event
}

// Hub routes notification events to live client sessions keyed by
// recipient. Publishing never blocks: delivery is at-most-once and
// purely additive over the durable store.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[SessionID]*subscriber
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{subscribers: make(map[SessionID]*subscriber)}
}

// Subscribe registers a live session for a recipient and returns the
// session ID and the event channel. The caller must Unsubscribe when
// the session ends.
func (h *Hub) Subscribe(recipientID uint) (SessionID, <-chan Event) {
	id := uuid.New()
	sub := &subscriber{
		recipientID: recipientID,
		ch:          make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	return id, sub.ch
}

// Unsubscribe removes a session and closes its channel.
func (h *Hub) Unsubscribe(id SessionID) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// Publish delivers an event to every live session of the recipient.
// Sends are non-blocking: a full subscriber buffer drops the event.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers {
		if sub.recipientID != event.Notification.RecipientID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// SubscriberCount reports the number of live sessions for a recipient.
func (h *Hub) SubscriberCount(recipientID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, sub := range h.subscribers {
		if sub.recipientID == recipientID {
			n++
		}
	}
	return n
}
