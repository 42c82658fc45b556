package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventhorizon/internal/models"
)

const bookingColumns = `id, client_id, client_name, vendor_id, vendor_name, vendor_role,
	date, time, status, payment_status, amount, event_type, package_id, package_name, notes,
	created_at, updated_at`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (` + bookingColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	_, err := db.db.ExecContext(ctx, query,
		booking.ID,
		booking.ClientID,
		booking.ClientName,
		booking.VendorID,
		booking.VendorName,
		booking.VendorRole,
		booking.Date,
		booking.Time,
		booking.Status,
		booking.PaymentStatus,
		booking.Amount,
		booking.EventType,
		booking.PackageID,
		booking.PackageName,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	var b models.Booking
	err := db.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.ClientID,
		&b.ClientName,
		&b.VendorID,
		&b.VendorName,
		&b.VendorRole,
		&b.Date,
		&b.Time,
		&b.Status,
		&b.PaymentStatus,
		&b.Amount,
		&b.EventType,
		&b.PackageID,
		&b.PackageName,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, rowErr(err)
	}
	return &b, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	return db.execAffectingOne(ctx, query, status, time.Now(), id)
}

func (db *DB) UpdateBookingFields(ctx context.Context, id string, upd models.BookingUpdate) error {
	var sets []string
	var args []interface{}

	if upd.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *upd.Date)
	}
	if upd.Time != nil {
		sets = append(sets, "time = ?")
		args = append(args, *upd.Time)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.PackageID != nil {
		sets = append(sets, "package_id = ?")
		args = append(args, *upd.PackageID)
	}
	if upd.PackageName != nil {
		sets = append(sets, "package_name = ?")
		args = append(args, *upd.PackageName)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), id)

	query := `UPDATE bookings SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	return db.execAffectingOne(ctx, query, args...)
}

func (db *DB) FindBookingsByVendor(ctx context.Context, vendorID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vendor_id = ? ORDER BY date, time, id`
	return db.queryBookings(ctx, query, vendorID)
}

func (db *DB) FindBookingsByClient(ctx context.Context, clientID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE client_id = ? ORDER BY date, time, id`
	return db.queryBookings(ctx, query, clientID)
}

func (db *DB) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY date, time, id`
	return db.queryBookings(ctx, query)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID,
			&b.ClientID,
			&b.ClientName,
			&b.VendorID,
			&b.VendorName,
			&b.VendorRole,
			&b.Date,
			&b.Time,
			&b.Status,
			&b.PaymentStatus,
			&b.Amount,
			&b.EventType,
			&b.PackageID,
			&b.PackageName,
			&b.Notes,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
