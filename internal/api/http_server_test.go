package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventhorizon/internal/availability"
	"eventhorizon/internal/config"
	"eventhorizon/internal/models"
	"eventhorizon/internal/repository"
	"eventhorizon/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerFixture(t *testing.T, cfg config.APIConfig) (*HTTPServer, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, &models.VendorProfile{
		ID:           "v1",
		Name:         "Lens & Light Studios",
		Role:         models.RolePhotographer,
		BlockedDates: []string{"2024-12-25"},
	}))
	require.NoError(t, store.CreateBooking(ctx, &models.Booking{
		ID: "b1", VendorID: "v1", ClientID: "c1", ClientName: "Alice Johnson",
		PackageName: "Basic Coverage", Date: "2024-06-10", Time: "14:00",
		Status: models.StatusConfirmed,
	}))

	logger := zerolog.New(io.Discard)
	checker := availability.NewOracle(store, store)
	notifications := service.NewNotificationService(store, store, &logger)
	bookings := service.NewBookingService(store, checker, nil, notifications, nil, 365, &logger)
	vendors := service.NewVendorService(store, nil, &logger)
	users := service.NewUserService(store, notifications, &logger)
	admin := service.NewAdminService(store, notifications, &logger)
	sessions := repository.NewMemorySessionRepository(time.Hour)
	calendars := service.NewCalendarService(store, bookings, vendors, checker, sessions, &logger)

	srv := NewHTTPServer(cfg, Services{
		Bookings:      bookings,
		Vendors:       vendors,
		Users:         users,
		Notifications: notifications,
		Calendars:     calendars,
		Admin:         admin,
		Availability:  checker,
	}, logger)
	return srv, store
}

func openConfig() config.APIConfig {
	return config.APIConfig{Enabled: true}
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv, _ := newServerFixture(t, openConfig())
	h := srv.Handler()

	t.Run("FreeSlot", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/availability/v1?date=2024-06-11&time=10:00", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		payload := decodeMap(t, rec)
		assert.Equal(t, true, payload["available"])
		assert.Equal(t, "v1", payload["vendor_id"])
	})

	t.Run("TakenSlot", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/availability/v1?date=2024-06-10&time=14:00", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeMap(t, rec)["available"])
	})

	t.Run("BlockedDate", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/availability/v1?date=2024-12-25&time=09:00", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeMap(t, rec)["available"])
	})

	t.Run("MissingParams", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/availability/v1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownVendor", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/availability/missing?date=2024-06-11&time=10:00", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/availability/v1?date=2024-06-11&time=10:00", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestBookingEndpoints(t *testing.T) {
	srv, _ := newServerFixture(t, openConfig())
	h := srv.Handler()
	date := time.Now().AddDate(0, 0, 30).Format(models.DateLayout)

	var createdID string

	t.Run("Create", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/bookings", map[string]any{
			"vendor_id": "v1", "client_id": "c1", "client_name": "Alice Johnson",
			"date": date, "time": "10:00",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var booking models.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, models.StatusPending, booking.Status)
		createdID = booking.ID
	})

	t.Run("ConflictWithoutOverride", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/bookings", map[string]any{
			"vendor_id": "v1", "client_id": "c2", "client_name": "Bob Smith",
			"date": date, "time": "10:00",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("OverrideCommits", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/bookings", map[string]any{
			"vendor_id": "v1", "client_id": "c2", "client_name": "Bob Smith",
			"date": date, "time": "10:00", "override": true,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("PastDateRejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/bookings", map[string]any{
			"vendor_id": "v1", "client_id": "c1", "date": "2020-01-01", "time": "10:00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ListByVendor", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/bookings?vendor_id=v1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		payload := decodeMap(t, rec)
		assert.GreaterOrEqual(t, len(payload["bookings"].([]any)), 3)
	})

	t.Run("StatusTransition", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/bookings/"+createdID+"/status",
			map[string]any{"status": models.StatusConfirmed})
		require.Equal(t, http.StatusOK, rec.Code)

		var booking models.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
		assert.Equal(t, models.StatusConfirmed, booking.Status)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/bookings/"+createdID+"/status",
			map[string]any{"status": "teleported"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("PatchReschedule", func(t *testing.T) {
		newTime := "16:00"
		rec := doJSON(t, h, http.MethodPatch, "/api/v1/bookings/"+createdID,
			map[string]any{"time": newTime})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var booking models.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
		assert.Equal(t, newTime, booking.Time)
	})

	t.Run("PatchOntoTakenSlot", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPatch, "/api/v1/bookings/"+createdID,
			map[string]any{"date": "2024-06-10", "time": "14:00"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("GetMissing", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/bookings/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuthRegisterLogin(t *testing.T) {
	srv, _ := newServerFixture(t, openConfig())
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"name": "Alice Client", "email": "alice@demo.com", "password": "password", "role": models.RoleClient,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.VerificationVerified, user.VerificationStatus)

	t.Run("Login", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]any{
			"email": "alice@demo.com", "password": "password",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]any{
			"email": "alice@demo.com", "password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/register", map[string]any{
			"email": "half@demo.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/register", map[string]any{
			"name": "Imposter", "email": "alice@demo.com", "password": "x", "role": models.RoleClient,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestVendorEndpoints(t *testing.T) {
	srv, _ := newServerFixture(t, openConfig())
	h := srv.Handler()

	t.Run("List", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/vendors", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeMap(t, rec)["vendors"], 1)
	})

	t.Run("ToggleBlockedDate", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/vendors/v1/blocked-dates",
			map[string]any{"date": "2024-07-04"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeMap(t, rec)["blocked"])

		rec = doJSON(t, h, http.MethodGet, "/api/v1/vendors/v1/blocked-dates", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, decodeMap(t, rec)["blocked_dates"], "2024-07-04")
	})

	t.Run("AddPackage", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/vendors/v1/packages",
			map[string]any{"name": "Premium Cinematic", "price": 2500})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("UnknownSubresource", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/vendors/v1/ratings", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPlannerEndpoints(t *testing.T) {
	srv, store := newServerFixture(t, openConfig())
	h := srv.Handler()
	ctx := context.Background()

	t.Run("BlockDateFlow", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/open",
			map[string]any{"date": "2024-07-01"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/draft",
			map[string]any{"title": "Family holiday", "time": "10:00", "date": "2024-07-01"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/save", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeMap(t, rec)["saved"])

		dates, err := store.GetBlockedDates(ctx, "v1")
		require.NoError(t, err)
		assert.Contains(t, dates, "2024-07-01")
	})

	t.Run("ConflictNeedsConfirm", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/open",
			map[string]any{"date": "2024-06-10"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/draft",
			map[string]any{"title": "Double booking", "time": "14:00", "date": "2024-06-10"})
		require.Equal(t, http.StatusOK, rec.Code)

		// Without confirm the conflicting save is refused but the session survives.
		rec = doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/save", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		payload := decodeMap(t, rec)
		assert.Equal(t, false, payload["saved"])
		assert.Equal(t, true, payload["conflict"])

		rec = doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/save",
			map[string]any{"confirm": true})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeMap(t, rec)["saved"])
	})

	t.Run("SaveWithoutOpenConflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/save", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("SelectUnknownEvent", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/open",
			map[string]any{"date": "2024-06-10"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h, http.MethodPost, "/api/v1/planner/v1/select",
			map[string]any{"event_id": "missing"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("SessionReadback", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/planner/v1/session", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := openConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []config.APIClientKey{
		{Key: "root-key", Name: "admin-console"},
		{Key: "reader-key", Name: "partner", Permissions: []string{"read:vendors", "read:availability"}},
	}
	srv, _ := newServerFixture(t, cfg)
	h := srv.Handler()

	send := func(method, target, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		if key != "" {
			req.Header.Set("x-api-key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("MissingKey", func(t *testing.T) {
		rec := send(http.MethodGet, "/api/v1/vendors", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		rec := send(http.MethodGet, "/api/v1/vendors", "stolen-key")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ScopedKeyAllowedRead", func(t *testing.T) {
		rec := send(http.MethodGet, "/api/v1/vendors", "reader-key")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ScopedKeyDeniedWrite", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors/v1/blocked-dates",
			bytes.NewReader([]byte(`{"date":"2024-07-04"}`)))
		req.Header.Set("x-api-key", "reader-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("ScopedKeyDeniedAdmin", func(t *testing.T) {
		rec := send(http.MethodGet, "/api/v1/admin/payouts", "reader-key")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("EmptyPermissionsAllowAll", func(t *testing.T) {
		rec := send(http.MethodGet, "/api/v1/admin/payouts", "root-key")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	cfg := openConfig()
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 2
	srv, _ := newServerFixture(t, cfg)
	h := srv.Handler()

	var last int
	for i := 0; i < 5; i++ {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/vendors", nil)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestEndpointLabel(t *testing.T) {
	cases := map[string]string{
		"/api/v1/bookings":           "bookings",
		"/api/v1/bookings/b1/status": "bookings",
		"/api/v1/availability/v1":    "availability",
		"/api/v1/planner/v1/save":    "planner",
		"/api/v1/":                   "unknown",
	}
	for path, want := range cases {
		assert.Equal(t, want, endpointLabel(path), path)
	}
}

func TestExportUnconfigured(t *testing.T) {
	srv, _ := newServerFixture(t, openConfig())
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/export?start=2024-01-01&end=2024-12-31", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
