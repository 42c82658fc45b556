package service

import (
	"context"
	"io"
	"testing"
	"time"

	"eventhorizon/internal/availability"
	"eventhorizon/internal/calendar"
	"eventhorizon/internal/models"
	"eventhorizon/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalendarFixture(t *testing.T) (*CalendarService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, &models.VendorProfile{
		ID:           "v1",
		Name:         "Lens & Light Studios",
		Role:         models.RolePhotographer,
		BlockedDates: []string{"2024-12-25"},
	}))
	require.NoError(t, store.CreateBooking(ctx, &models.Booking{
		ID: "b1", VendorID: "v1", ClientID: "c1", ClientName: "Alice Johnson",
		PackageName: "Basic Coverage", Date: "2024-06-10", Time: "14:00",
		Status: models.StatusConfirmed,
	}))

	logger := zerolog.New(io.Discard)
	checker := availability.NewOracle(store, store)
	sink := newSinkRecorder()
	bookings := NewBookingService(store, checker, nil, sink, nil, 365, &logger)
	vendors := NewVendorService(store, nil, &logger)
	sessions := repository.NewMemorySessionRepository(time.Hour)

	return NewCalendarService(store, bookings, vendors, checker, sessions, &logger), store
}

func TestVendorEvents(t *testing.T) {
	svc, _ := newCalendarFixture(t)
	ctx := context.Background()

	events, err := svc.VendorEvents(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "b1", events[0].ID)
	assert.Equal(t, "Alice Johnson (Basic Coverage)", events[0].Title)
	assert.Equal(t, models.EventBooking, events[0].Type)

	assert.Equal(t, "block-0", events[1].ID)
	assert.Equal(t, models.BlockedEventTitle, events[1].Title)
	assert.Equal(t, "2024-12-25", events[1].Date)
}

func TestClientEvents(t *testing.T) {
	svc, _ := newCalendarFixture(t)
	ctx := context.Background()

	events, err := svc.ClientEvents(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	// Blocked dates belong to vendors; a client calendar never shows them.
	assert.Equal(t, models.EventBooking, events[0].Type)
}

func TestVendorMonth(t *testing.T) {
	svc, _ := newCalendarFixture(t)
	ctx := context.Background()

	page, err := svc.VendorMonth(ctx, "v1", calendar.MonthView{Year: 2024, Month: time.June})
	require.NoError(t, err)
	assert.Equal(t, 2024, page.Grid.Year)
	assert.Equal(t, time.June, page.Grid.Month)
	assert.Equal(t, 30, page.Grid.Days)
	assert.Len(t, page.Events, 2)
}

func TestVendorPlannerWiring(t *testing.T) {
	ctx := context.Background()
	confirmAll := func(ctx context.Context, prompt string) bool { return true }

	t.Run("AddBlocksDate", func(t *testing.T) {
		svc, store := newCalendarFixture(t)
		p := svc.VendorPlanner("v1", confirmAll)

		_, err := p.OpenDay(ctx, "v1", "2024-07-01")
		require.NoError(t, err)
		require.NoError(t, p.UpdateDraft(ctx, "v1", calendar.Draft{
			Title: "Family holiday", Time: "10:00", Date: "2024-07-01",
		}))

		result, err := p.Save(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, result.Saved)

		// The typed time and title are accepted but only the date lands.
		dates, err := store.GetBlockedDates(ctx, "v1")
		require.NoError(t, err)
		assert.Contains(t, dates, "2024-07-01")
	})

	t.Run("EditBookingReschedules", func(t *testing.T) {
		svc, store := newCalendarFixture(t)
		p := svc.VendorPlanner("v1", confirmAll)

		_, err := p.OpenDay(ctx, "v1", "2024-06-10")
		require.NoError(t, err)
		require.NoError(t, p.SelectEvent(ctx, "v1", "b1"))
		require.NoError(t, p.UpdateDraft(ctx, "v1", calendar.Draft{
			Title: "Alice Johnson (Basic Coverage)", Time: "16:00", Date: "2024-06-12",
		}))

		result, err := p.Save(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, result.Saved)

		booking, err := store.GetBooking(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "2024-06-12", booking.Date)
		assert.Equal(t, "16:00", booking.Time)
	})

	t.Run("EditBlockedMovesTheBlock", func(t *testing.T) {
		svc, store := newCalendarFixture(t)
		p := svc.VendorPlanner("v1", confirmAll)

		_, err := p.OpenDay(ctx, "v1", "2024-12-25")
		require.NoError(t, err)
		require.NoError(t, p.SelectEvent(ctx, "v1", "block-0"))
		require.NoError(t, p.UpdateDraft(ctx, "v1", calendar.Draft{
			Title: models.BlockedEventTitle, Time: models.AllDayTime, Date: "2024-12-26",
		}))

		result, err := p.Save(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, result.Saved)

		dates, err := store.GetBlockedDates(ctx, "v1")
		require.NoError(t, err)
		assert.NotContains(t, dates, "2024-12-25")
		assert.Contains(t, dates, "2024-12-26")
	})

	t.Run("DeleteBookingCancelsIt", func(t *testing.T) {
		svc, store := newCalendarFixture(t)
		p := svc.VendorPlanner("v1", confirmAll)

		_, err := p.OpenDay(ctx, "v1", "2024-06-10")
		require.NoError(t, err)
		require.NoError(t, p.SelectEvent(ctx, "v1", "b1"))

		deleted, err := p.Delete(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, deleted)

		booking, err := store.GetBooking(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, booking.Status)
	})

	t.Run("DeleteBlockedEventIsNoop", func(t *testing.T) {
		svc, store := newCalendarFixture(t)
		p := svc.VendorPlanner("v1", confirmAll)

		_, err := p.OpenDay(ctx, "v1", "2024-12-25")
		require.NoError(t, err)
		require.NoError(t, p.SelectEvent(ctx, "v1", "block-0"))

		deleted, err := p.Delete(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, deleted)

		// The block is untouched; unblocking only happens via the toggle.
		dates, err := store.GetBlockedDates(ctx, "v1")
		require.NoError(t, err)
		assert.Contains(t, dates, "2024-12-25")
	})

	t.Run("ConflictDetectedOnOccupiedSlot", func(t *testing.T) {
		svc, _ := newCalendarFixture(t)
		declined := false
		confirm := func(ctx context.Context, prompt string) bool {
			declined = true
			return false
		}
		p := svc.VendorPlanner("v1", confirm)

		_, err := p.OpenDay(ctx, "v1", "2024-06-10")
		require.NoError(t, err)
		require.NoError(t, p.UpdateDraft(ctx, "v1", calendar.Draft{
			Title: "Double booking", Time: "14:00", Date: "2024-06-10",
		}))

		result, err := p.Save(ctx, "v1")
		require.NoError(t, err)
		assert.False(t, result.Saved)
		assert.True(t, result.Conflict)
		assert.True(t, declined)
	})
}

func TestReadOnlyPlanner(t *testing.T) {
	svc, _ := newCalendarFixture(t)
	ctx := context.Background()

	var picked string
	p := svc.ReadOnlyPlanner("c1", func(ctx context.Context, date string) error {
		picked = date
		return nil
	})

	events, err := p.OpenDay(ctx, "c1", "2024-06-10")
	require.NoError(t, err)
	assert.Nil(t, events)
	assert.Equal(t, "2024-06-10", picked)

	sess, err := p.Session(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.ModeClosed, sess.Mode)
}
