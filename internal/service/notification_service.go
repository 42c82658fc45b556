package service

import (
	"context"
	"time"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/metrics"
	"eventhorizon/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NotificationService is the in-app feed. Send never returns an error;
// a notification that cannot be stored is logged and dropped so the
// booking path is never blocked by the feed.
type NotificationService struct {
	store  domain.NotificationStore
	users  domain.UserStore
	logger *zerolog.Logger
}

func NewNotificationService(store domain.NotificationStore, users domain.UserStore, logger *zerolog.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		users:  users,
		logger: logger,
	}
}

func (s *NotificationService) Send(ctx context.Context, userID, title, message, typ string) {
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now(),
	}

	if err := s.store.AppendNotification(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("title", title).Msg("store notification error")
		return
	}
	metrics.NotificationsSent.Inc()
}

// Broadcast fans one message out to every user.
func (s *NotificationService) Broadcast(ctx context.Context, title, message, typ string) error {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		s.Send(ctx, u.ID, title, message, typ)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

// Poll returns notifications created after since; it backs the
// client-side polling loop that stands in for a socket.
func (s *NotificationService) Poll(ctx context.Context, userID string, since time.Time) ([]*models.Notification, error) {
	return s.store.ListNotificationsAfter(ctx, userID, since)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}

// UnreadCount counts unread entries for badge rendering.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count, nil
}
