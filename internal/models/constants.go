package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

const (
	PaymentPaid     = "paid"
	PaymentPending  = "pending"
	PaymentRefunded = "refunded"
)

const (
	RoleClient       = "client"
	RolePhotographer = "photographer"
	RoleCaterer      = "caterer"
	RoleVenue        = "venue"
	RoleMakeup       = "makeup"
	RoleAdmin        = "admin"
)

const (
	VerificationVerified = "verified"
	VerificationPending  = "pending"
	VerificationRejected = "rejected"
)

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

const (
	// BlockedEventTitle is the fixed title of synthetic blocked-date events.
	BlockedEventTitle = "BLOCKED"

	// AllDayTime marks events without time granularity (blocked dates).
	AllDayTime = "All Day"

	// BlockedEventIDPrefix prefixes synthetic blocked-date event ids.
	BlockedEventIDPrefix = "block-"
)

const (
	// DateLayout is the calendar date wire format. Dates are plain
	// strings everywhere; parsing happens only at validation edges.
	DateLayout = "2006-01-02"

	// TimeLayout is the 24-hour slot time wire format.
	TimeLayout = "15:04"
)

const (
	// DefaultSessionTTL время жизни planner-сессии
	DefaultSessionTTL = 24 * 60 * 60 // 24 hours in seconds

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 128

	// DefaultMaxBookingDays максимальный горизонт бронирования
	DefaultMaxBookingDays = 365
)
