package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissing dipakai saat konfigurasi wajib belum diset.
var ErrMissing = errors.New("missing configuration")

type Config struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	StoreDriver  string        `mapstructure:"store_driver"`
	StoreDSN     string        `mapstructure:"store_dsn"`
	RedisURL     string        `mapstructure:"redis_url"`
	DocumentKey  string        `mapstructure:"document_key"`
	EventsKey    string        `mapstructure:"events_key"`
	DocumentTTL  time.Duration `mapstructure:"document_ttl"`
	EventLogCap  int           `mapstructure:"event_log_cap"`
	EventLogTTL  time.Duration `mapstructure:"event_log_ttl"`
	CompletedCap int           `mapstructure:"completed_cap"`
	Timezone     string        `mapstructure:"timezone"`

	ManagerSecret     string        `mapstructure:"manager_secret"`
	ManagerSecretHash string        `mapstructure:"manager_secret_hash"`
	ManagerHeader     string        `mapstructure:"manager_header"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`

	EnforceKitchenOpen bool `mapstructure:"enforce_kitchen_open"`
	EnforceStatusOrder bool `mapstructure:"enforce_status_order"`

	SSEPollInterval time.Duration `mapstructure:"sse_poll_interval"`
	SSEHeartbeat    time.Duration `mapstructure:"sse_heartbeat"`
	SSEMaxDuration  time.Duration `mapstructure:"sse_max_duration"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	AMQPURL        string `mapstructure:"amqp_url"`
	AMQPExchange   string `mapstructure:"amqp_exchange"`
	TelegramToken  string `mapstructure:"telegram_bot_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`
}

var keys = map[string]interface{}{
	"port":                 "8080",
	"gin_mode":             "debug",
	"log_level":            "info",
	"log_format":           "text",
	"store_driver":         "sqlite",
	"store_dsn":            "food_orders.db",
	"redis_url":            "",
	"document_key":         "food_order_data",
	"events_key":           "food_order_events",
	"document_ttl":         time.Duration(0),
	"event_log_cap":        100,
	"event_log_ttl":        5 * time.Minute,
	"completed_cap":        50,
	"timezone":             "Pacific/Auckland",
	"manager_secret":       "",
	"manager_secret_hash":  "",
	"manager_header":       "X-Manager-Secret",
	"session_ttl":          time.Hour,
	"enforce_kitchen_open": false,
	"enforce_status_order": true,
	"sse_poll_interval":    3 * time.Second,
	"sse_heartbeat":        10 * time.Second,
	"sse_max_duration":     25 * time.Second,
	"rate_limit_rps":       50.0,
	"rate_limit_burst":     100,
	"amqp_url":             "",
	"amqp_exchange":        "food_order_events",
	"telegram_bot_token":   "",
	"telegram_chat_id":     int64(0),
}

// SetDefaults registers every key with its default and env binding.
func SetDefaults(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, def := range keys {
		v.SetDefault(key, def)
		_ = v.BindEnv(key, strings.ToUpper(key))
	}
}

// Load membaca .env (jika ada) lalu environment lewat viper.
func Load(v *viper.Viper, envFiles ...string) (*Config, error) {
	// .env opsional, sama seperti di main lama
	_ = godotenv.Load(envFiles...)

	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings needed at startup. The manager secret is deliberately
// not checked here: a missing secret surfaces per request as a 500.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "sqlite", "mysql", "postgres":
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: STORE_DSN is required for driver %s", ErrMissing, c.StoreDriver)
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for driver redis", ErrMissing)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.EventLogCap <= 0 || c.CompletedCap <= 0 {
		return fmt.Errorf("EVENT_LOG_CAP and COMPLETED_CAP must be positive")
	}
	if c.SSEMaxDuration <= 0 || c.SSEPollInterval <= 0 || c.SSEHeartbeat <= 0 {
		return fmt.Errorf("SSE_MAX_DURATION, SSE_POLL_INTERVAL and SSE_HEARTBEAT must be positive")
	}
	if c.SSEHeartbeat >= c.SSEMaxDuration {
		return fmt.Errorf("SSE_HEARTBEAT (%s) must be shorter than SSE_MAX_DURATION (%s)", c.SSEHeartbeat, c.SSEMaxDuration)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// HasManagerSecret reports whether any form of the manager secret is configured.
func (c *Config) HasManagerSecret() bool {
	return c.ManagerSecret != "" || c.ManagerSecretHash != ""
}
