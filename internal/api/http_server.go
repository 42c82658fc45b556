package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventhorizon/internal/config"
	"eventhorizon/internal/domain"
	"eventhorizon/internal/metrics"
	"eventhorizon/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer is the JSON surface over the marketplace services.
type HTTPServer struct {
	cfg           config.APIConfig
	bookings      *service.BookingService
	vendors       *service.VendorService
	users         *service.UserService
	notifications *service.NotificationService
	calendars     *service.CalendarService
	admin         *service.AdminService
	availability  domain.AvailabilityChecker
	exporter      Exporter
	server        *http.Server
	auth          *HTTPAuth
	logger        zerolog.Logger
}

// Exporter produces the bookings spreadsheet file.
type Exporter interface {
	ExportSchedule(ctx context.Context, startDate, endDate string) (string, error)
}

type Services struct {
	Bookings      *service.BookingService
	Vendors       *service.VendorService
	Users         *service.UserService
	Notifications *service.NotificationService
	Calendars     *service.CalendarService
	Admin         *service.AdminService
	Availability  domain.AvailabilityChecker
	Exporter      Exporter
}

func NewHTTPServer(cfg config.APIConfig, svcs Services, logger zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:           cfg,
		bookings:      svcs.Bookings,
		vendors:       svcs.Vendors,
		users:         svcs.Users,
		notifications: svcs.Notifications,
		calendars:     svcs.Calendars,
		admin:         svcs.Admin,
		availability:  svcs.Availability,
		exporter:      svcs.Exporter,
		logger:        logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/availability/", srv.handleAvailability)
	mux.HandleFunc("/api/v1/vendors", srv.handleVendors)
	mux.HandleFunc("/api/v1/vendors/", srv.handleVendorSubresource)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/api/v1/calendar", srv.handleGlobalCalendar)
	mux.HandleFunc("/api/v1/calendar/", srv.handleVendorCalendar)
	mux.HandleFunc("/api/v1/planner/", srv.handlePlanner)
	mux.HandleFunc("/api/v1/notifications/", srv.handleNotifications)
	mux.HandleFunc("/api/v1/auth/register", srv.handleRegister)
	mux.HandleFunc("/api/v1/auth/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/users/", srv.handleUserSubresource)
	mux.HandleFunc("/api/v1/admin/", srv.handleAdmin)
	mux.HandleFunc("/api/v1/quotations", srv.handleQuotations)
	mux.HandleFunc("/api/v1/quotations/", srv.handleQuotationByID)
	mux.HandleFunc("/api/v1/export", srv.handleExport)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler exposes the wired handler chain; used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(endpointLabel(r.URL.Path))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// endpointLabel collapses paths to their second segment after /api/v1
// so the metric cardinality stays bounded.
func endpointLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/api/v1/")
	if idx := strings.IndexByte(trimmed, '/'); idx > 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
