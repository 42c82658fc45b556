package calendar

import (
	"fmt"

	"eventhorizon/internal/models"
)

// ProjectEvents flattens bookings and blocked dates into the uniform
// calendar shape. The result is derived state: regenerate it after
// every mutation instead of patching it.
func ProjectEvents(bookings []*models.Booking, blockedDates []string) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(bookings)+len(blockedDates))

	for _, b := range bookings {
		pkg := b.PackageName
		if pkg == "" {
			pkg = "Custom"
		}
		events = append(events, models.CalendarEvent{
			ID:     b.ID,
			Title:  fmt.Sprintf("%s (%s)", b.ClientName, pkg),
			Date:   b.Date,
			Time:   b.Time,
			Type:   models.EventBooking,
			Status: b.Status,
		})
	}

	for idx, date := range blockedDates {
		events = append(events, models.CalendarEvent{
			ID:    fmt.Sprintf("%s%d", models.BlockedEventIDPrefix, idx),
			Title: models.BlockedEventTitle,
			Date:  date,
			Time:  models.AllDayTime,
			Type:  models.EventBlocked,
		})
	}

	return events
}

// EventsForDate filters events to one day; used for both day-cell
// badges and the day-detail list.
func EventsForDate(events []models.CalendarEvent, date string) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}
