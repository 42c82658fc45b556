package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhorizon/internal/api"
	"eventhorizon/internal/availability"
	"eventhorizon/internal/config"
	"eventhorizon/internal/database"
	"eventhorizon/internal/domain"
	"eventhorizon/internal/events"
	"eventhorizon/internal/export"
	"eventhorizon/internal/google"
	"eventhorizon/internal/logging"
	"eventhorizon/internal/metrics"
	"eventhorizon/internal/notify"
	"eventhorizon/internal/repository"
	"eventhorizon/internal/service"
	"eventhorizon/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	store, storeCloser, err := initStore(cfg, &logger)
	if err != nil {
		return err
	}
	if storeCloser != nil {
		defer (func() { _ = storeCloser.Close() })()
	}

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer repository.Close(redisClient)
	}
	sessions := initSessions(cfg, redisClient, &logger)

	eventBus := events.NewEventBus()
	initTelegram(cfg, eventBus, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := initSheetsSync(ctx, cfg, redisClient, &logger)

	httpServer := buildServer(cfg, store, sessions, eventBus, syncWorker, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServers(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initStore picks the storage driver: the seeded in-memory store for
// demo runs, sqlite for durable deployments.
func initStore(cfg *config.Config, logger *zerolog.Logger) (domain.Store, io.Closer, error) {
	if cfg.Storage.Driver == "sqlite" {
		db, err := database.NewDB(cfg.Storage.Path)
		if err != nil {
			logger.Error().Err(err).Str("db_path", cfg.Storage.Path).Msg("init database")
			return nil, nil, err
		}
		logger.Info().Str("db_path", cfg.Storage.Path).Msg("sqlite store ready")
		return db, db, nil
	}

	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		seedPath = cfg.SeedPath
	}
	seed, err := config.LoadSeed(seedPath)
	if err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("load seed")
		return nil, nil, err
	}

	store := repository.NewMemoryStore()
	store.LoadSeed(seed)
	logger.Info().
		Int("vendors", len(seed.Vendors)).
		Int("bookings", len(seed.Bookings)).
		Msg("memory store seeded")
	return store, nil, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initSessions builds the planner session store. With redis present the
// memory store stays behind it as the failover target.
func initSessions(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SessionRepository {
	ttl := time.Duration(cfg.Redis.SessionTTL) * time.Second
	memory := repository.NewMemorySessionRepository(ttl)
	if redisClient == nil {
		return memory
	}

	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	return repository.NewFailoverSessionRepository(primary, memory, logger)
}

func initTelegram(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Telegram.BotToken == "" {
		return
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without telegram")
		return
	}

	notifier := notify.NewTelegramNotifier(bot, cfg.Telegram.AdminChatID, logger.With().Str("component", "telegram").Logger())
	notifier.SubscribeAll(bus)
	logger.Info().Str("bot", bot.Self.UserName).Msg("telegram notifier connected")
}

func initSheetsSync(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SyncWorker {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}
	logger.Info().Msg("google sheets connected")

	syncWorker := worker.NewSyncWorker(sheetsService, redisClient, worker.RetryPolicy{},
		logger.With().Str("component", "sheets-sync").Logger())
	go syncWorker.Start(ctx)
	return syncWorker
}

func buildServer(cfg *config.Config, store domain.Store, sessions domain.SessionRepository,
	eventBus *events.EventBus, syncWorker domain.SyncWorker, logger *zerolog.Logger) *api.HTTPServer {
	checker := availability.NewOracle(store, store)
	notifications := service.NewNotificationService(store, store, logger)

	bookings := service.NewBookingService(store, checker, eventBus, notifications,
		syncWorker, cfg.Booking.MaxBookingDays, logger)
	vendors := service.NewVendorService(store, eventBus, logger)
	users := service.NewUserService(store, notifications, logger)
	calendars := service.NewCalendarService(store, bookings, vendors, checker, sessions, logger)
	admin := service.NewAdminService(store, notifications, logger)

	exporter := export.NewExcelExporter(store, cfg.Exports.Path,
		logger.With().Str("component", "export").Logger())

	return api.NewHTTPServer(cfg.API, api.Services{
		Bookings:      bookings,
		Vendors:       vendors,
		Users:         users,
		Notifications: notifications,
		Calendars:     calendars,
		Admin:         admin,
		Availability:  checker,
		Exporter:      exporter,
	}, logger.With().Str("component", "http").Logger())
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServers(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
