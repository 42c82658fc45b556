package service

import (
	"context"
	"fmt"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminService covers the back-office surface: payouts, support
// tickets and quotation threads.
type AdminService struct {
	store    domain.Store
	notifier domain.NotificationSink
	logger   *zerolog.Logger
}

func NewAdminService(store domain.Store, notifier domain.NotificationSink, logger *zerolog.Logger) *AdminService {
	return &AdminService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *AdminService) ListPayouts(ctx context.Context) ([]*models.Payout, error) {
	return s.store.ListPayouts(ctx)
}

func (s *AdminService) ProcessPayout(ctx context.Context, payoutID string) error {
	if err := s.store.MarkPayoutProcessed(ctx, payoutID); err != nil {
		return err
	}

	payouts, err := s.store.ListPayouts(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("payout_id", payoutID).
			Msg("payout processed but re-read failed, skipping notification")
		return nil
	}
	for _, p := range payouts {
		if p.ID == payoutID {
			s.notifier.Send(ctx, p.VendorID, "Payout Processed",
				fmt.Sprintf("Payout of ₹%.0f has been processed.", p.Amount), models.NotificationSuccess)
			break
		}
	}
	return nil
}

func (s *AdminService) ListTickets(ctx context.Context) ([]*models.SupportTicket, error) {
	return s.store.ListTickets(ctx)
}

func (s *AdminService) ResolveTicket(ctx context.Context, ticketID string) error {
	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		return err
	}

	var ticket *models.SupportTicket
	for _, t := range tickets {
		if t.ID == ticketID {
			ticket = t
			break
		}
	}
	if ticket == nil {
		return domain.ErrNotFound
	}

	if err := s.store.UpdateTicketStatus(ctx, ticketID, "resolved"); err != nil {
		return err
	}

	s.notifier.Send(ctx, ticket.UserID, "Support Ticket Resolved",
		fmt.Sprintf("Ticket %q has been resolved.", ticket.Subject), models.NotificationSuccess)
	return nil
}

// RequestQuotation opens a quotation thread and pings the vendor.
func (s *AdminService) RequestQuotation(ctx context.Context, q *models.Quotation) (*models.Quotation, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Status = "pending"

	if err := s.store.CreateQuotation(ctx, q); err != nil {
		return nil, err
	}

	s.notifier.Send(ctx, q.VendorID, "New Quotation Request",
		"A client requested a quote.", models.NotificationInfo)
	return q, nil
}

func (s *AdminService) ListQuotations(ctx context.Context) ([]*models.Quotation, error) {
	return s.store.ListQuotations(ctx)
}

// RespondQuotation records the vendor's reply and estimate.
func (s *AdminService) RespondQuotation(ctx context.Context, quotationID, response string, amount float64) error {
	if err := s.store.RespondQuotation(ctx, quotationID, response, amount); err != nil {
		return err
	}

	quotations, err := s.store.ListQuotations(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("quotation_id", quotationID).
			Msg("quotation response saved but re-read failed, skipping notification")
		return nil
	}
	for _, q := range quotations {
		if q.ID == quotationID {
			s.notifier.Send(ctx, q.ClientID, "Quotation Reply",
				fmt.Sprintf("%s replied to your quotation request.", q.VendorName), models.NotificationInfo)
			break
		}
	}
	return nil
}
