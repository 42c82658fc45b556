package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventhorizon/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SheetsClient is the external mirror the worker writes to.
type SheetsClient interface {
	UpsertBooking(booking *models.Booking) error
	UpdateBookingStatus(bookingID, status string) error
}

// SyncWorker drains booking sync tasks into the spreadsheet mirror.
// Tasks prefer the redis queue for durability and fall back to the
// in-memory channel when redis is absent or down. A task that exhausts
// its retries lands on the dead-letter list.
type SyncWorker struct {
	sheets        SheetsClient
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.SyncTask
	redisQueueKey string
	deadLetterKey string
	logger        zerolog.Logger
}

func NewSyncWorker(sheets SheetsClient, redisClient *redis.Client, retry RetryPolicy, logger zerolog.Logger) *SyncWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SyncWorker{
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.SyncTask, models.WorkerQueueSize),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		logger:        logger,
	}
}

// EnqueueUpsert schedules a full-row mirror of the booking.
func (w *SyncWorker) EnqueueUpsert(ctx context.Context, booking *models.Booking) error {
	if booking == nil || booking.ID == "" {
		return errors.New("booking id is required")
	}
	task := models.SyncTask{
		Type:      models.SyncTaskUpsert,
		BookingID: booking.ID,
		Booking:   booking,
		CreatedAt: time.Now(),
	}
	return w.enqueue(ctx, task)
}

// EnqueueStatus schedules a status-only update.
func (w *SyncWorker) EnqueueStatus(ctx context.Context, bookingID, status string) error {
	if bookingID == "" || status == "" {
		return errors.New("booking id and status are required")
	}
	task := models.SyncTask{
		Type:      models.SyncTaskUpdateStatus,
		BookingID: bookingID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	return w.enqueue(ctx, task)
}

func (w *SyncWorker) enqueue(ctx context.Context, task models.SyncTask) error {
	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		return errors.New("sync queue is full")
	}
}

// Start launches the main loop; stops when ctx is done.
func (w *SyncWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sync worker started")
	defer w.logger.Info().Msg("sync worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.processTask(ctx, task)
		default:
			if task, ok := w.tryRedis(ctx); ok {
				w.processTask(ctx, task)
				continue
			}
			select {
			case <-ctx.Done():
				return
			case task := <-w.queue:
				w.processTask(ctx, task)
			case <-time.After(time.Second):
			}
		}
	}
}

func (w *SyncWorker) tryRedis(ctx context.Context) (models.SyncTask, bool) {
	if w.redis == nil {
		return models.SyncTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return models.SyncTask{}, false
		}
		w.logger.Error().Err(err).Msg("redis BRPOP error")
		return models.SyncTask{}, false
	}
	if len(res) != 2 {
		return models.SyncTask{}, false
	}

	var task models.SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode redis task error")
		return models.SyncTask{}, false
	}
	return task, true
}

func (w *SyncWorker) processTask(ctx context.Context, task models.SyncTask) {
	if err := w.handleTask(task); err != nil {
		w.retryOrDrop(ctx, task, err)
		return
	}
	w.logger.Debug().Str("type", task.Type).Str("booking_id", task.BookingID).Msg("sync task done")
}

func (w *SyncWorker) handleTask(task models.SyncTask) error {
	switch task.Type {
	case models.SyncTaskUpsert:
		if task.Booking == nil {
			return errors.New("booking payload missing")
		}
		return w.sheets.UpsertBooking(task.Booking)
	case models.SyncTaskUpdateStatus:
		if task.BookingID == "" || task.Status == "" {
			return errors.New("booking id or status missing")
		}
		return w.sheets.UpdateBookingStatus(task.BookingID, task.Status)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type)
	}
}

func (w *SyncWorker) retryOrDrop(ctx context.Context, task models.SyncTask, cause error) {
	task.RetryCount++
	if task.RetryCount >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(cause).
			Str("booking_id", task.BookingID).
			Int("retries", task.RetryCount).
			Msg("sync task exhausted retries")
		w.pushDeadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.NextDelay(task.RetryCount)
	w.logger.Warn().Err(cause).
		Str("booking_id", task.BookingID).
		Dur("retry_in", delay).
		Msg("sync task failed, scheduling retry")

	retry := task
	time.AfterFunc(delay, func() {
		if err := w.enqueue(context.Background(), retry); err != nil {
			w.logger.Error().Err(err).Str("booking_id", retry.BookingID).Msg("requeue failed")
		}
	})
}

func (w *SyncWorker) pushRedis(ctx context.Context, task models.SyncTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SyncWorker) pushDeadLetter(ctx context.Context, task models.SyncTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Msg("encode deadletter error")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("deadletter push error")
	}
}
