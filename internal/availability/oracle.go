package availability

import (
	"context"
	"fmt"

	"eventhorizon/internal/domain"
)

// Oracle answers "is this slot bookable" over the booking and vendor
// stores. It holds no state of its own and never mutates anything.
//
// A slot is a (date, time) pair. Two rules make it unavailable:
// the date is in the vendor's blocked set, or an active booking for the
// same vendor matches both date and time exactly. Matching is plain
// string equality; a 14:00 booking does not conflict with 14:30 no
// matter how long the first one runs. Interval overlap was considered
// and rejected to keep behavior identical to the shipped checker.
type Oracle struct {
	bookings domain.BookingStore
	vendors  domain.VendorStore
}

func NewOracle(bookings domain.BookingStore, vendors domain.VendorStore) *Oracle {
	return &Oracle{bookings: bookings, vendors: vendors}
}

// IsAvailable reports whether the vendor's slot is free. Blocked dates
// shadow the whole day regardless of time.
func (o *Oracle) IsAvailable(ctx context.Context, vendorID, date, slotTime string) (bool, error) {
	blocked, err := o.dateBlocked(ctx, vendorID, date)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}

	bookings, err := o.bookings.FindBookingsByVendor(ctx, vendorID)
	if err != nil {
		return false, fmt.Errorf("scan vendor bookings: %w", err)
	}

	for _, b := range bookings {
		if !b.Active() {
			continue
		}
		if b.Date == date && b.Time == slotTime {
			return false, nil
		}
	}

	return true, nil
}

// IsAvailableForEdit applies the re-check policy for edits: moving an
// event onto its own original (date, time) pair is never a conflict.
func (o *Oracle) IsAvailableForEdit(ctx context.Context, vendorID, date, slotTime, origDate, origTime string) (bool, error) {
	if date == origDate && slotTime == origTime {
		return true, nil
	}
	return o.IsAvailable(ctx, vendorID, date, slotTime)
}

func (o *Oracle) dateBlocked(ctx context.Context, vendorID, date string) (bool, error) {
	blockedDates, err := o.vendors.GetBlockedDates(ctx, vendorID)
	if err != nil {
		return false, fmt.Errorf("read blocked dates: %w", err)
	}
	for _, d := range blockedDates {
		if d == date {
			return true, nil
		}
	}
	return false, nil
}
