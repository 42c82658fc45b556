package domain

import (
	"context"
	"time"

	"eventhorizon/internal/models"
)

// BookingStore owns booking records. The availability oracle only reads
// from it; all mutations go through explicit calls.
type BookingStore interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingFields(ctx context.Context, id string, upd models.BookingUpdate) error
	UpdateBookingStatus(ctx context.Context, id string, status string) error
	FindBookingsByVendor(ctx context.Context, vendorID string) ([]*models.Booking, error)
	FindBookingsByClient(ctx context.Context, clientID string) ([]*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
}

// VendorStore owns vendor profiles, including the blocked-date set.
type VendorStore interface {
	GetVendor(ctx context.Context, id string) (*models.VendorProfile, error)
	ListVendors(ctx context.Context) ([]*models.VendorProfile, error)
	CreateVendor(ctx context.Context, vendor *models.VendorProfile) error
	UpdateVendor(ctx context.Context, vendor *models.VendorProfile) error
	GetBlockedDates(ctx context.Context, vendorID string) ([]string, error)
	// ToggleBlockedDate adds the date if absent, removes it if present,
	// and reports whether the date is blocked afterwards.
	ToggleBlockedDate(ctx context.Context, vendorID, date string) (bool, error)
	AddPackage(ctx context.Context, vendorID string, pkg models.Package) error
	AddMenuItem(ctx context.Context, vendorID string, item models.MenuItem) error
	ToggleAmenity(ctx context.Context, vendorID, amenity string) error
	AddImage(ctx context.Context, vendorID, imageURL string) error
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type NotificationStore interface {
	AppendNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
	ListNotificationsAfter(ctx context.Context, userID string, since time.Time) ([]*models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// AdminStore covers the back-office surface: payouts, support tickets
// and quotation threads.
type AdminStore interface {
	ListPayouts(ctx context.Context) ([]*models.Payout, error)
	MarkPayoutProcessed(ctx context.Context, id string) error
	ListTickets(ctx context.Context) ([]*models.SupportTicket, error)
	UpdateTicketStatus(ctx context.Context, id, status string) error
	CreateQuotation(ctx context.Context, q *models.Quotation) error
	ListQuotations(ctx context.Context) ([]*models.Quotation, error)
	RespondQuotation(ctx context.Context, id, response string, amount float64) error
}

// Store is the full persistence surface. The in-memory implementation
// mirrors the original mock arrays; SQLite is the durable alternative.
type Store interface {
	BookingStore
	VendorStore
	UserStore
	NotificationStore
	AdminStore
}

// SessionRepository keeps transient planner state between requests.
type SessionRepository interface {
	GetSession(ctx context.Context, userID string) (*models.PlannerSession, error)
	SetSession(ctx context.Context, session *models.PlannerSession) error
	ClearSession(ctx context.Context, userID string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// NotificationSink is fire-and-forget: delivery failures are logged by
// the implementation, never surfaced to the mutation path.
type NotificationSink interface {
	Send(ctx context.Context, userID, title, message, typ string)
}

type SyncWorker interface {
	EnqueueUpsert(ctx context.Context, booking *models.Booking) error
	EnqueueStatus(ctx context.Context, bookingID, status string) error
}

// AvailabilityChecker decides whether a (vendor, date, time) slot is
// bookable. It informs; it never blocks a caller that chooses to override.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, vendorID, date, slotTime string) (bool, error)
}
