package repository

import (
	"context"
	"sync/atomic"
	"time"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"

	"github.com/rs/zerolog"
)

type FailoverSessionRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) GetSession(ctx context.Context, userID string) (*models.PlannerSession, error) {
	if !r.isDown.Load() {
		session, err := r.primary.GetSession(ctx, userID)
		if err == nil {
			return session, nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		session, err := r.primary.GetSession(ctx, userID)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetSession(ctx, userID)
}

func (r *FailoverSessionRepository) SetSession(ctx context.Context, session *models.PlannerSession) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, session)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.SetSession(ctx, session)
}

func (r *FailoverSessionRepository) ClearSession(ctx context.Context, userID string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, userID)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.ClearSession(ctx, userID)
}
