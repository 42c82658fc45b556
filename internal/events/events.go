package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingRejected  = "booking_rejected"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"
	EventBookingMoved     = "booking_moved"
	EventDateBlocked      = "date_blocked"
	EventDateUnblocked    = "date_unblocked"
)

// BookingEventPayload is the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID  string  `json:"booking_id"`
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name"`
	VendorID   string  `json:"vendor_id"`
	VendorName string  `json:"vendor_name"`
	Status     string  `json:"status"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Amount     float64 `json:"amount,omitempty"`
	ChangedBy  string  `json:"changed_by,omitempty"`
}

// BlockedDatePayload describes a blocked-date toggle.
type BlockedDatePayload struct {
	VendorID string `json:"vendor_id"`
	Date     string `json:"date"`
	Blocked  bool   `json:"blocked"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
