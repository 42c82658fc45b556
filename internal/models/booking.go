package models

import "time"

type Booking struct {
	ID            string    `json:"id" yaml:"id"`
	ClientID      string    `json:"client_id" yaml:"client_id"`
	ClientName    string    `json:"client_name" yaml:"client_name"`
	VendorID      string    `json:"vendor_id" yaml:"vendor_id"`
	VendorName    string    `json:"vendor_name" yaml:"vendor_name"`
	VendorRole    string    `json:"vendor_role" yaml:"vendor_role"`
	Date          string    `json:"date" yaml:"date"` // YYYY-MM-DD
	Time          string    `json:"time" yaml:"time"` // HH:MM, 24-hour
	Status        string    `json:"status" yaml:"status"`
	PaymentStatus string    `json:"payment_status,omitempty" yaml:"payment_status"`
	Amount        float64   `json:"amount" yaml:"amount"`
	EventType     string    `json:"event_type,omitempty" yaml:"event_type"`
	PackageID     string    `json:"package_id,omitempty" yaml:"package_id"`
	PackageName   string    `json:"package_name,omitempty" yaml:"package_name"`
	Notes         string    `json:"notes,omitempty" yaml:"notes"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// Active reports whether the booking still occupies its slot.
// Cancelled and rejected bookings never conflict.
func (b *Booking) Active() bool {
	return b.Status != StatusCancelled && b.Status != StatusRejected
}

// Terminal reports whether the booking reached a final state.
func (b *Booking) Terminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusRejected
}

// BookingUpdate carries a partial field update; nil fields are left untouched.
type BookingUpdate struct {
	Date        *string  `json:"date,omitempty"`
	Time        *string  `json:"time,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	PackageID   *string  `json:"package_id,omitempty"`
	PackageName *string  `json:"package_name,omitempty"`
}
