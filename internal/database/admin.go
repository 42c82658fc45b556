package database

import (
	"context"
	"fmt"
	"time"

	"eventhorizon/internal/models"
)

func (db *DB) ListPayouts(ctx context.Context) ([]*models.Payout, error) {
	query := `SELECT id, vendor_id, vendor_name, amount, status, date FROM payouts ORDER BY id`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*models.Payout
	for rows.Next() {
		var p models.Payout
		if err := rows.Scan(&p.ID, &p.VendorID, &p.VendorName, &p.Amount, &p.Status, &p.Date); err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return payouts, nil
}

func (db *DB) MarkPayoutProcessed(ctx context.Context, id string) error {
	query := `UPDATE payouts SET status = 'processed' WHERE id = ?`
	return db.execAffectingOne(ctx, query, id)
}

func (db *DB) ListTickets(ctx context.Context) ([]*models.SupportTicket, error) {
	query := `SELECT id, user_id, user_name, subject, status, priority, date FROM tickets ORDER BY id`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.SupportTicket
	for rows.Next() {
		var t models.SupportTicket
		if err := rows.Scan(&t.ID, &t.UserID, &t.UserName, &t.Subject, &t.Status, &t.Priority, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (db *DB) UpdateTicketStatus(ctx context.Context, id, status string) error {
	query := `UPDATE tickets SET status = ? WHERE id = ?`
	return db.execAffectingOne(ctx, query, status, id)
}

func (db *DB) CreateQuotation(ctx context.Context, q *models.Quotation) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	query := `INSERT INTO quotations (id, client_id, vendor_id, vendor_name, status, details, response, estimated_amount, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.db.ExecContext(ctx, query,
		q.ID, q.ClientID, q.VendorID, q.VendorName, q.Status, q.Details, q.Response, q.EstimatedAmount, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create quotation: %w", err)
	}
	return nil
}

func (db *DB) ListQuotations(ctx context.Context) ([]*models.Quotation, error) {
	query := `SELECT id, client_id, vendor_id, vendor_name, status, details, response, estimated_amount, created_at
			FROM quotations ORDER BY id`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer rows.Close()

	var quotations []*models.Quotation
	for rows.Next() {
		var q models.Quotation
		if err := rows.Scan(&q.ID, &q.ClientID, &q.VendorID, &q.VendorName, &q.Status,
			&q.Details, &q.Response, &q.EstimatedAmount, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		quotations = append(quotations, &q)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return quotations, nil
}

func (db *DB) RespondQuotation(ctx context.Context, id, response string, amount float64) error {
	query := `UPDATE quotations SET response = ?, estimated_amount = ?, status = 'replied' WHERE id = ?`
	return db.execAffectingOne(ctx, query, response, amount, id)
}
