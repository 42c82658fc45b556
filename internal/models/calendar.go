package models

// EventType discriminates the calendar event union. Handling code
// switches on it exhaustively instead of sniffing optional fields.
type EventType string

const (
	EventBooking   EventType = "booking"
	EventBlocked   EventType = "blocked"
	EventPersonal  EventType = "personal"
	EventQuotation EventType = "quotation"
)

// CalendarEvent is a derived, read-only projection over bookings and
// blocked dates. It is regenerated from the stores on every read and is
// never a source of truth.
type CalendarEvent struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Date   string    `json:"date"`
	Time   string    `json:"time"`
	Type   EventType `json:"type"`
	Status string    `json:"status,omitempty"`
}
