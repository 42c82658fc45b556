package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"eventhorizon/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sheetsRecorder captures mirror calls; fail makes every call error.
type sheetsRecorder struct {
	mu       sync.Mutex
	upserts  []string
	statuses []string
	fail     bool
}

func (r *sheetsRecorder) UpsertBooking(booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("sheets unavailable")
	}
	r.upserts = append(r.upserts, booking.ID)
	return nil
}

func (r *sheetsRecorder) UpdateBookingStatus(bookingID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("sheets unavailable")
	}
	r.statuses = append(r.statuses, bookingID+":"+status)
	return nil
}

func (r *sheetsRecorder) upsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.upserts)
}

func (r *sheetsRecorder) statusCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.statuses)
}

func TestRetryPolicyNextDelay(t *testing.T) {
	t.Run("ExponentialGrowth", func(t *testing.T) {
		p := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: time.Minute}
		assert.Equal(t, 1*time.Second, p.NextDelay(1))
		assert.Equal(t, 2*time.Second, p.NextDelay(2))
		assert.Equal(t, 4*time.Second, p.NextDelay(3))
		assert.Equal(t, 8*time.Second, p.NextDelay(4))
	})

	t.Run("MaxDelayClamp", func(t *testing.T) {
		p := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}
		assert.Equal(t, 5*time.Second, p.NextDelay(10))
	})

	t.Run("ZeroValueDefaults", func(t *testing.T) {
		var p RetryPolicy
		assert.Equal(t, time.Second, p.NextDelay(1))
		assert.Equal(t, 2*time.Second, p.NextDelay(2))
	})

	t.Run("AttemptBelowOne", func(t *testing.T) {
		p := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2}
		assert.Equal(t, p.NextDelay(1), p.NextDelay(0))
		assert.Equal(t, p.NextDelay(1), p.NextDelay(-3))
	})
}

func TestEnqueueValidation(t *testing.T) {
	w := NewSyncWorker(&sheetsRecorder{}, nil, RetryPolicy{}, zerolog.New(io.Discard))
	ctx := context.Background()

	assert.Error(t, w.EnqueueUpsert(ctx, nil))
	assert.Error(t, w.EnqueueUpsert(ctx, &models.Booking{}))
	assert.Error(t, w.EnqueueStatus(ctx, "", "confirmed"))
	assert.Error(t, w.EnqueueStatus(ctx, "b1", ""))
}

func TestMemoryQueueFallback(t *testing.T) {
	sheets := &sheetsRecorder{}
	w := NewSyncWorker(sheets, nil, RetryPolicy{}, zerolog.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.EnqueueUpsert(ctx, &models.Booking{ID: "b1", ClientName: "Alice Johnson"}))
	require.NoError(t, w.EnqueueStatus(ctx, "b1", models.StatusConfirmed))

	go w.Start(ctx)

	require.Eventually(t, func() bool {
		return sheets.upsertCount() == 1 && sheets.statusCount() == 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestMemoryQueueFull(t *testing.T) {
	w := NewSyncWorker(&sheetsRecorder{}, nil, RetryPolicy{}, zerolog.New(io.Discard))
	ctx := context.Background()

	for i := 0; i < models.WorkerQueueSize; i++ {
		require.NoError(t, w.EnqueueStatus(ctx, "b1", models.StatusConfirmed))
	}
	err := w.EnqueueStatus(ctx, "b1", models.StatusConfirmed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync queue is full")
}

func setupRedisWorker(t *testing.T, sheets SheetsClient, retry RetryPolicy) (*SyncWorker, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSyncWorker(sheets, client, retry, zerolog.New(io.Discard)), mr, client
}

func TestRedisQueue(t *testing.T) {
	sheets := &sheetsRecorder{}
	w, mr, _ := setupRedisWorker(t, sheets, RetryPolicy{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.EnqueueUpsert(ctx, &models.Booking{ID: "b1"}))
	require.True(t, mr.Exists("sheets:queue"))

	go w.Start(ctx)

	require.Eventually(t, func() bool {
		return sheets.upsertCount() == 1
	}, 3*time.Second, 10*time.Millisecond)
	assert.False(t, mr.Exists("sheets:queue"))
}

func TestExhaustedTaskLandsOnDeadLetter(t *testing.T) {
	sheets := &sheetsRecorder{fail: true}
	w, mr, _ := setupRedisWorker(t, sheets, RetryPolicy{MaxRetries: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.EnqueueStatus(ctx, "b1", models.StatusConfirmed))

	go w.Start(ctx)

	require.Eventually(t, func() bool {
		return mr.Exists("sheets:deadletter")
	}, 3*time.Second, 10*time.Millisecond)
}
