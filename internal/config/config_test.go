package config

import (
	"os"
	"path/filepath"
	"testing"

	"eventhorizon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("FullConfig", func(t *testing.T) {
		path := writeTempConfig(t, `
app:
  name: eventhorizon
  environment: test
storage:
  driver: memory
api:
  enabled: true
  http:
    port: 9000
  auth:
    enabled: true
    api_keys:
      - key: root-key
        name: admin-console
  rate_limit:
    rps: 10
    burst: 20
booking:
  max_booking_days: 180
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "eventhorizon", cfg.App.Name)
		assert.Equal(t, 9000, cfg.API.HTTP.Port)
		assert.Equal(t, 180, cfg.Booking.MaxBookingDays)
		require.Len(t, cfg.API.Auth.APIKeys, 1)
		assert.Equal(t, "root-key", cfg.API.Auth.APIKeys[0].Key)
	})

	t.Run("Defaults", func(t *testing.T) {
		path := writeTempConfig(t, `
app:
  name: eventhorizon
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Storage.Driver)
		assert.Equal(t, 8080, cfg.API.HTTP.Port)
		assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
		assert.Equal(t, 24*60*60, cfg.Redis.SessionTTL)
		assert.Equal(t, 365, cfg.Booking.MaxBookingDays)
		assert.Equal(t, "exports", cfg.Exports.Path)
	})

	t.Run("EnvExpansion", func(t *testing.T) {
		t.Setenv("TEST_REDIS_ADDR", "localhost:6399")
		path := writeTempConfig(t, `
redis:
  address: ${TEST_REDIS_ADDR}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "localhost:6399", cfg.Redis.Address)
	})

	t.Run("APIEnabledImpliesHTTP", func(t *testing.T) {
		path := writeTempConfig(t, `
api:
  enabled: true
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.True(t, cfg.API.HTTP.Enabled)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		path := writeTempConfig(t, "app: [not: closed")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("UnknownDriver", func(t *testing.T) {
		path := writeTempConfig(t, `
storage:
  driver: postgres
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage driver")
	})

	t.Run("SqliteNeedsPath", func(t *testing.T) {
		path := writeTempConfig(t, `
storage:
  driver: sqlite
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.path is required")
	})

	t.Run("SqliteWithPath", func(t *testing.T) {
		path := writeTempConfig(t, `
storage:
  driver: sqlite
  path: data/app.db
`)
		_, err := Load(path)
		assert.NoError(t, err)
	})

	t.Run("TelegramTokenNeedsChatID", func(t *testing.T) {
		path := writeTempConfig(t, `
telegram:
  bot_token: "123:abc"
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "admin_chat_id")
	})
}

func TestLoadSeed(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		seed, err := LoadSeed("")
		require.NoError(t, err)
		assert.Empty(t, seed.Users)
	})

	t.Run("MissingFileIsEmpty", func(t *testing.T) {
		seed, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, seed.Vendors)
	})

	t.Run("FullDataset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
users:
  - id: c1
    name: Alice Client
    email: alice@demo.com
    role: client
vendors:
  - id: v1
    name: Lens & Light Studios
    role: photographer
    blocked_dates: ["2023-12-25"]
bookings:
  - id: b1
    client_id: c1
    vendor_id: v1
    date: "2024-06-10"
    time: "14:00"
    status: confirmed
`), 0o644))

		seed, err := LoadSeed(path)
		require.NoError(t, err)
		require.Len(t, seed.Users, 1)
		require.Len(t, seed.Vendors, 1)
		require.Len(t, seed.Bookings, 1)
		assert.Equal(t, []string{"2023-12-25"}, seed.Vendors[0].BlockedDates)
		assert.Equal(t, "14:00", seed.Bookings[0].Time)
	})
}

func TestValidateSeed(t *testing.T) {
	t.Run("DuplicateVendorID", func(t *testing.T) {
		err := ValidateSeed(&SeedData{
			Vendors: []models.VendorProfile{{ID: "v1", Name: "A"}, {ID: "v1", Name: "B"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate vendor id")
	})

	t.Run("EmptyBookingID", func(t *testing.T) {
		err := ValidateSeed(&SeedData{
			Bookings: []models.Booking{{VendorID: "v1"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty id")
	})

	t.Run("DuplicateBookingID", func(t *testing.T) {
		err := ValidateSeed(&SeedData{
			Bookings: []models.Booking{{ID: "b1", VendorID: "v1"}, {ID: "b1", VendorID: "v2"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate booking id")
	})
}
