package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventhorizon/internal/config"
	"eventhorizon/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "planner_session:"

var errNoClient = errors.New("redis client is nil")

// RedisSessionRepository keeps planner sessions in Redis with a TTL so
// abandoned modals expire on their own.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// GetSession returns nil, nil when no session exists or it has expired.
func (r *RedisSessionRepository) GetSession(ctx context.Context, userID string) (*models.PlannerSession, error) {
	if r.client == nil {
		return nil, errNoClient
	}

	raw, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("read session %s: %w", userID, err)
	}

	session := new(models.PlannerSession)
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", userID, err)
	}
	return session, nil
}

func (r *RedisSessionRepository) SetSession(ctx context.Context, session *models.PlannerSession) error {
	if r.client == nil {
		return errNoClient
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.UserID, err)
	}
	if err := r.client.Set(ctx, sessionKey(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("write session %s: %w", session.UserID, err)
	}
	return nil
}

func (r *RedisSessionRepository) ClearSession(ctx context.Context, userID string) error {
	if r.client == nil {
		return errNoClient
	}
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear session %s: %w", userID, err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
