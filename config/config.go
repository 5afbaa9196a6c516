package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisDedupeDB        int    `mapstructure:"REDIS_DEDUPE_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Admin API.
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	AdminAPIKeyHash string `mapstructure:"ADMIN_API_KEY_HASH"`

	// Messaging gateway.
	WebhookSecret     string  `mapstructure:"WEBHOOK_SECRET"`
	BotChannelID      string  `mapstructure:"BOT_CHANNEL_ID"`
	GatewayURL        string  `mapstructure:"GATEWAY_URL"`
	GatewayToken      string  `mapstructure:"GATEWAY_TOKEN"`
	GatewayRatePerSec float64 `mapstructure:"GATEWAY_RATE_PER_SEC"`

	// Schedule shared by every tenant.
	Timezone string   `mapstructure:"TIMEZONE"`
	SlotGrid []string `mapstructure:"SLOT_GRID"`
	Holidays []string `mapstructure:"HOLIDAYS"`

	SessionIdleTimeout   time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
	ExternalCallTimeout  time.Duration `mapstructure:"EXTERNAL_CALL_TIMEOUT"`
	ReminderLead         time.Duration `mapstructure:"REMINDER_LEAD"`
	MessageDedupeTTL     time.Duration `mapstructure:"MESSAGE_DEDUPE_TTL"`
}

var AppConfig Config

// LoadConfig reads config.yaml (if present) and the environment into AppConfig.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load builds a Config from defaults, an optional config.yaml in "." or
// "./config", and environment variables, in increasing precedence.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 600)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "bookingbot")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DEDUPE_DB", 0)
	v.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_API_KEY_HASH", "")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("BOT_CHANNEL_ID", "")
	v.SetDefault("GATEWAY_URL", "")
	v.SetDefault("GATEWAY_TOKEN", "")
	v.SetDefault("GATEWAY_RATE_PER_SEC", 20)
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("SLOT_GRID", []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"})
	v.SetDefault("HOLIDAYS", []string{"2026-01-01", "2026-04-21", "2026-05-01"})
	v.SetDefault("SESSION_IDLE_TIMEOUT", "5m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1m")
	v.SetDefault("EXTERNAL_CALL_TIMEOUT", "5s")
	v.SetDefault("REMINDER_LEAD", "2h")
	v.SetDefault("MESSAGE_DEDUPE_TTL", "10m")
}

// Validate rejects values the services cannot run with. The slot grid,
// holidays and time zone are checked by availability.NewCalendar.
func (c Config) Validate() error {
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", c.SessionIdleTimeout)
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SessionSweepInterval)
	}
	if c.ExternalCallTimeout <= 0 {
		return fmt.Errorf("EXTERNAL_CALL_TIMEOUT must be positive, got %s", c.ExternalCallTimeout)
	}
	if c.ReminderLead < 0 {
		return fmt.Errorf("REMINDER_LEAD must not be negative, got %s", c.ReminderLead)
	}
	if len(c.SlotGrid) == 0 {
		return fmt.Errorf("SLOT_GRID must list at least one time")
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
