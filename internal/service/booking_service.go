package service

import (
	"context"
	"fmt"
	"time"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/events"
	"eventhorizon/internal/metrics"
	"eventhorizon/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle. Availability is consulted
// before create and before a reschedule, but a caller that sets
// override commits anyway; the checker informs, it does not veto.
type BookingService struct {
	store          domain.Store
	checker        domain.AvailabilityChecker
	eventBus       domain.EventPublisher
	notifier       domain.NotificationSink
	syncWorker     domain.SyncWorker
	maxBookingDays int
	logger         *zerolog.Logger
}

func NewBookingService(store domain.Store, checker domain.AvailabilityChecker, eventBus domain.EventPublisher,
	notifier domain.NotificationSink, syncWorker domain.SyncWorker, maxBookingDays int, logger *zerolog.Logger) *BookingService {
	if maxBookingDays <= 0 {
		maxBookingDays = models.DefaultMaxBookingDays
	}
	return &BookingService{
		store:          store,
		checker:        checker,
		eventBus:       eventBus,
		notifier:       notifier,
		syncWorker:     syncWorker,
		maxBookingDays: maxBookingDays,
		logger:         logger,
	}
}

// ValidateBookingDate bounds the booking horizon. Dates are free-form
// strings on the wire; this is the one place they get parsed.
func (s *BookingService) ValidateBookingDate(date string) error {
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	if parsed.Before(time.Now().AddDate(0, 0, -1)) {
		return fmt.Errorf("date %s is in the past", date)
	}

	maxDate := time.Now().AddDate(0, 0, s.maxBookingDays)
	if parsed.After(maxDate) {
		return fmt.Errorf("date %s is beyond the booking horizon", date)
	}

	return nil
}

// CreateBooking stores a new pending booking and notifies the vendor.
// Without override a taken slot returns ErrSlotUnavailable.
func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking, override bool) error {
	if !override {
		available, err := s.checker.IsAvailable(ctx, booking.VendorID, booking.Date, booking.Time)
		if err != nil {
			return err
		}
		if !available {
			metrics.BookingConflicts.Inc()
			return domain.ErrSlotUnavailable
		}
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.Status = models.StatusPending
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentPaid
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return err
	}
	metrics.BookingsCreated.Inc()

	s.notifier.Send(ctx, booking.VendorID, "New Booking",
		fmt.Sprintf("New booking request from %s", booking.ClientName), models.NotificationInfo)

	s.publishEvent(ctx, events.EventBookingCreated, booking, "client")
	s.enqueueUpsert(ctx, booking)

	return nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID string) error {
	booking, err := s.setStatus(ctx, bookingID, models.StatusConfirmed)
	if err != nil {
		return err
	}

	s.notifier.Send(ctx, booking.ClientID, "Booking Confirmed",
		fmt.Sprintf("Your booking with %s is confirmed!", booking.VendorName), models.NotificationSuccess)

	s.publishEvent(ctx, events.EventBookingConfirmed, booking, "vendor")
	s.enqueueStatus(ctx, booking)
	return nil
}

func (s *BookingService) RejectBooking(ctx context.Context, bookingID string) error {
	booking, err := s.setStatus(ctx, bookingID, models.StatusRejected)
	if err != nil {
		return err
	}

	s.notifier.Send(ctx, booking.ClientID, "Booking Rejected",
		fmt.Sprintf("Your booking with %s was rejected.", booking.VendorName), models.NotificationError)

	s.publishEvent(ctx, events.EventBookingRejected, booking, "vendor")
	s.enqueueStatus(ctx, booking)
	return nil
}

// CancelBooking frees the slot and tells both sides. This is also the
// delete path for calendar events: removing a booking means cancelling it.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.setStatus(ctx, bookingID, models.StatusCancelled)
	if err != nil {
		return err
	}

	s.notifier.Send(ctx, booking.ClientID, "Booking Cancelled",
		fmt.Sprintf("Booking with %s was cancelled.", booking.VendorName), models.NotificationWarning)
	s.notifier.Send(ctx, booking.VendorID, "Booking Cancelled",
		fmt.Sprintf("Booking with %s was cancelled.", booking.ClientName), models.NotificationWarning)

	s.publishEvent(ctx, events.EventBookingCancelled, booking, "user")
	s.enqueueStatus(ctx, booking)
	return nil
}

func (s *BookingService) CompleteBooking(ctx context.Context, bookingID string) error {
	booking, err := s.setStatus(ctx, bookingID, models.StatusCompleted)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.EventBookingCompleted, booking, "vendor")
	s.enqueueStatus(ctx, booking)
	return nil
}

// RescheduleBooking moves a booking to a new slot. The availability
// re-check skips the booking's own original (date, time) pair, so
// saving an untouched form never reports a conflict.
func (s *BookingService) RescheduleBooking(ctx context.Context, bookingID, newDate, newTime string, override bool) error {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if !override && (newDate != booking.Date || newTime != booking.Time) {
		available, err := s.checker.IsAvailable(ctx, booking.VendorID, newDate, newTime)
		if err != nil {
			return err
		}
		if !available {
			return domain.ErrSlotUnavailable
		}
	}

	upd := models.BookingUpdate{Date: &newDate, Time: &newTime}
	if err := s.store.UpdateBookingFields(ctx, bookingID, upd); err != nil {
		return err
	}

	moved, err := s.store.GetBooking(ctx, bookingID)
	if err == nil {
		s.publishEvent(ctx, events.EventBookingMoved, moved, "vendor")
		s.enqueueUpsert(ctx, moved)
	}
	return nil
}

// UpdateBooking applies a partial field update without lifecycle side
// effects. Date or time moves should go through RescheduleBooking.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID string, upd models.BookingUpdate) error {
	if err := s.store.UpdateBookingFields(ctx, bookingID, upd); err != nil {
		return err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err == nil {
		s.enqueueUpsert(ctx, booking)
	}
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) BookingsForVendor(ctx context.Context, vendorID string) ([]*models.Booking, error) {
	return s.store.FindBookingsByVendor(ctx, vendorID)
}

func (s *BookingService) BookingsForClient(ctx context.Context, clientID string) ([]*models.Booking, error) {
	return s.store.FindBookingsByClient(ctx, clientID)
}

func (s *BookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.store.ListBookings(ctx)
}

func (s *BookingService) setStatus(ctx context.Context, bookingID, status string) (*models.Booking, error) {
	if err := s.store.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	return s.store.GetBooking(ctx, bookingID)
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, booking *models.Booking, changedBy string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ClientName: booking.ClientName,
		VendorID:   booking.VendorID,
		VendorName: booking.VendorName,
		Status:     booking.Status,
		Date:       booking.Date,
		Time:       booking.Time,
		Amount:     booking.Amount,
		ChangedBy:  changedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueUpsert(ctx context.Context, booking *models.Booking) {
	if s.syncWorker == nil {
		return
	}
	if err := s.syncWorker.EnqueueUpsert(ctx, booking); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID).Msg("sync enqueue error")
	}
}

func (s *BookingService) enqueueStatus(ctx context.Context, booking *models.Booking) {
	if s.syncWorker == nil {
		return
	}
	if err := s.syncWorker.EnqueueStatus(ctx, booking.ID, booking.Status); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID).Msg("sync enqueue error")
	}
}
