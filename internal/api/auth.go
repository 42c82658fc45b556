package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"eventhorizon/internal/config"

	"golang.org/x/time/rate"
)

const apiKeyHeaderDefault = "x-api-key"

var errPermissionDenied = fmt.Errorf("permission denied")

// HTTPAuth provides API-key auth and per-key rate limiting.
type HTTPAuth struct {
	cfg      config.APIConfig
	clients  map[string]config.APIClientKey
	limiters sync.Map // map[string]*rate.Limiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, clients: m}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(r); err != nil {
				statusCode := http.StatusUnauthorized
				if err == errPermissionDenied {
					statusCode = http.StatusForbidden
				}
				writeError(w, statusCode, err.Error())
				return
			}
		}

		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	apiKey := strings.TrimSpace(r.Header.Get(a.headerName()))
	if apiKey == "" {
		return fmt.Errorf("missing api key header")
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return fmt.Errorf("invalid api key")
	}

	return a.checkPermissions(client, r)
}

func (a *HTTPAuth) checkPermissions(client config.APIClientKey, r *http.Request) error {
	required := requiredPermissionHTTP(r)
	if required == "" {
		return nil
	}
	// An empty permissions list means allow-all.
	if len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

func requiredPermissionHTTP(r *http.Request) string {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/v1/availability"):
		return "read:availability"
	case strings.HasPrefix(path, "/api/v1/calendar"):
		return "read:calendar"
	case strings.HasPrefix(path, "/api/v1/bookings"):
		if r.Method == http.MethodGet {
			return "read:bookings"
		}
		return "write:bookings"
	case strings.HasPrefix(path, "/api/v1/vendors"):
		if r.Method == http.MethodGet {
			return "read:vendors"
		}
		return "write:vendors"
	case strings.HasPrefix(path, "/api/v1/admin"):
		return "admin"
	case strings.HasPrefix(path, "/api/v1/export"):
		return "admin"
	default:
		return ""
	}
}

func (a *HTTPAuth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.RPS <= 0 {
		return nil
	}

	lim := a.getLimiter(a.clientKey(r))
	if !lim.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}
	return nil
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.headerName())); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *HTTPAuth) headerName() string {
	header := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if header == "" {
		header = apiKeyHeaderDefault
	}
	return header
}

func (a *HTTPAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
