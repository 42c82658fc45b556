package repository

import (
	"context"
	"sync"
	"time"

	"eventhorizon/internal/models"
)

type MemorySessionRepository struct {
	sessions sync.Map
	ttl      time.Duration
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl: ttl,
	}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, userID string) (*models.PlannerSession, error) {
	val, ok := r.sessions.Load(userID)
	if !ok {
		return nil, nil
	}
	return val.(*models.PlannerSession), nil
}

func (r *MemorySessionRepository) SetSession(ctx context.Context, session *models.PlannerSession) error {
	r.sessions.Store(session.UserID, session)
	return nil
}

func (r *MemorySessionRepository) ClearSession(ctx context.Context, userID string) error {
	r.sessions.Delete(userID)
	return nil
}
