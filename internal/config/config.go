package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Google     GoogleConfig     `yaml:"google"`
	Booking    BookingConfig    `yaml:"booking"`
	Exports    ExportConfig     `yaml:"exports"`
	SeedPath   string           `yaml:"seed_path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// StorageConfig selects the store implementation. Driver "memory" keeps
// everything in process (seeded from SeedPath); "sqlite" persists to Path.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type RedisConfig struct {
	Address    string `yaml:"address"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	PoolSize   int    `yaml:"pool_size"`
	SessionTTL int    `yaml:"session_ttl"` // seconds
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

type GoogleConfig struct {
	CredentialsFile       string `yaml:"credentials_file"`
	BookingsSpreadsheetID string `yaml:"bookings_spreadsheet_id"`
}

type BookingConfig struct {
	MaxBookingDays int `yaml:"max_booking_days"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; config values may reference its variables.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}

	if c.Telegram.BotToken != "" && c.Telegram.AdminChatID == 0 {
		return errors.New("telegram.admin_chat_id is required when a bot token is set")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Redis.SessionTTL == 0 {
		c.Redis.SessionTTL = 24 * 60 * 60
	}
	if c.Booking.MaxBookingDays == 0 {
		c.Booking.MaxBookingDays = 365
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
