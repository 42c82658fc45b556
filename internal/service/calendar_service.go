package service

import (
	"context"
	"errors"
	"strings"

	"eventhorizon/internal/calendar"
	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"

	"github.com/rs/zerolog"
)

// CalendarService projects bookings and blocked dates into calendar
// events and hands out planners wired for each role. The projection is
// always rebuilt from the stores; nothing here caches event lists.
type CalendarService struct {
	store    domain.Store
	bookings *BookingService
	vendors  *VendorService
	checker  domain.AvailabilityChecker
	sessions domain.SessionRepository
	logger   *zerolog.Logger
}

func NewCalendarService(store domain.Store, bookings *BookingService, vendors *VendorService,
	checker domain.AvailabilityChecker, sessions domain.SessionRepository, logger *zerolog.Logger) *CalendarService {
	return &CalendarService{
		store:    store,
		bookings: bookings,
		vendors:  vendors,
		checker:  checker,
		sessions: sessions,
		logger:   logger,
	}
}

// VendorEvents is the vendor's own calendar: their bookings plus their
// blocked dates as synthetic all-day events.
func (s *CalendarService) VendorEvents(ctx context.Context, vendorID string) ([]models.CalendarEvent, error) {
	bookings, err := s.store.FindBookingsByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	blockedDates, err := s.store.GetBlockedDates(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return calendar.ProjectEvents(bookings, blockedDates), nil
}

// ClientEvents shows a client their own bookings. No blocked dates; a
// client never sees another vendor's block list as events.
func (s *CalendarService) ClientEvents(ctx context.Context, clientID string) ([]models.CalendarEvent, error) {
	bookings, err := s.store.FindBookingsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return calendar.ProjectEvents(bookings, nil), nil
}

// GlobalEvents is the admin view over every booking on the platform.
func (s *CalendarService) GlobalEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.ProjectEvents(bookings, nil), nil
}

// MonthPage bundles the grid layout with the events to paint on it.
type MonthPage struct {
	Grid   calendar.Grid          `json:"grid"`
	Events []models.CalendarEvent `json:"events"`
}

// VendorMonth renders one month of the vendor's calendar.
func (s *CalendarService) VendorMonth(ctx context.Context, vendorID string, view calendar.MonthView) (*MonthPage, error) {
	events, err := s.VendorEvents(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return &MonthPage{Grid: view.Grid(), Events: events}, nil
}

// VendorPlanner wires the full mutation set: adding an event blocks the
// chosen date, editing moves bookings or re-toggles blocks, deleting
// cancels the underlying booking. confirm resolves conflict and delete
// prompts; pass nil for a planner that never overrides.
func (s *CalendarService) VendorPlanner(vendorID string, confirm calendar.Confirmer) *calendar.Planner {
	cb := calendar.Callbacks{
		OnAdd: func(ctx context.Context, date, slotTime, title string) error {
			// The vendor add form creates a whole-day block; the typed
			// time and title are accepted but only the date matters.
			_, err := s.vendors.ToggleBlockedDate(ctx, vendorID, date)
			return err
		},
		OnEdit: func(ctx context.Context, event models.CalendarEvent, newTime, newDate string) error {
			if event.Type == models.EventBooking {
				return s.bookings.RescheduleBooking(ctx, event.ID, newDate, newTime, true)
			}
			// A block has no record of its own. Moving it is a toggle
			// off the old date and a toggle on the new one.
			if _, err := s.vendors.ToggleBlockedDate(ctx, vendorID, event.Date); err != nil {
				return err
			}
			_, err := s.vendors.ToggleBlockedDate(ctx, vendorID, newDate)
			return err
		},
		OnDelete: func(ctx context.Context, eventID string) error {
			if strings.HasPrefix(eventID, models.BlockedEventIDPrefix) {
				// Synthetic blocked events cannot be deleted from here;
				// unblocking goes through the toggle.
				return nil
			}
			err := s.bookings.CancelBooking(ctx, eventID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		},
		CheckConflict: func(ctx context.Context, date, slotTime string) (bool, error) {
			available, err := s.checker.IsAvailable(ctx, vendorID, date, slotTime)
			if err != nil {
				return false, err
			}
			return !available, nil
		},
	}
	return calendar.NewPlanner(s.sessions, s.vendorEventSource(vendorID), cb, confirm)
}

// ReadOnlyPlanner forwards day clicks and never opens the modal; it
// backs the client's date-picking calendar.
func (s *CalendarService) ReadOnlyPlanner(clientID string, onDateSelect func(ctx context.Context, date string) error) *calendar.Planner {
	cb := calendar.Callbacks{OnDateSelect: onDateSelect}
	source := func(ctx context.Context) ([]models.CalendarEvent, error) {
		return s.ClientEvents(ctx, clientID)
	}
	return calendar.NewPlanner(s.sessions, source, cb, nil)
}

func (s *CalendarService) vendorEventSource(vendorID string) calendar.EventSource {
	return func(ctx context.Context) ([]models.CalendarEvent, error) {
		return s.VendorEvents(ctx, vendorID)
	}
}
