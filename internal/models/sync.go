package models

import "time"

const (
	SyncTaskUpsert       = "upsert"
	SyncTaskUpdateStatus = "update_status"
)

// SyncTask is one unit of mirror work for the external spreadsheet.
// RetryCount travels with the task so a re-queued task remembers how
// many attempts it has burned.
type SyncTask struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	Booking    *Booking  `json:"booking,omitempty"`
	Status     string    `json:"status,omitempty"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at"`
}
