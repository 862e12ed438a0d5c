package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppPort string

	DatabaseDriver string
	DatabaseDSN    string
	DBLogLevel     string

	JWTSecret           string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	ConfirmationCodeTTL time.Duration
	ReservedUsernames   []string

	RabbitMQURL string
	MailQueue   string

	MailBackend  string
	MailFrom     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=yamdb port=5432 sslmode=disable")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("CONFIRMATION_CODE_TTL", "24h")
	v.SetDefault("RESERVED_USERNAMES", "me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("MAIL_QUEUE", "confirmation_email")
	v.SetDefault("MAIL_BACKEND", "log")
	v.SetDefault("MAIL_FROM", "no-reply@yamdb.com")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 25)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
}

// Load reads a .env file when present, then the optional config file,
// then the environment. Environment variables win.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Ignoring unreadable .env file: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from the keys set on v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:             v.GetString("APP_PORT"),
		DatabaseDriver:      strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:         v.GetString("DATABASE_DSN"),
		DBLogLevel:          strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		JWTSecret:           v.GetString("JWT_SECRET"),
		AccessTokenTTL:      v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:     v.GetDuration("REFRESH_TOKEN_TTL"),
		ConfirmationCodeTTL: v.GetDuration("CONFIRMATION_CODE_TTL"),
		ReservedUsernames:   splitList(v.GetString("RESERVED_USERNAMES")),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		MailQueue:           v.GetString("MAIL_QUEUE"),
		MailBackend:         strings.ToLower(v.GetString("MAIL_BACKEND")),
		MailFrom:            v.GetString("MAIL_FROM"),
		SMTPHost:            v.GetString("SMTP_HOST"),
		SMTPPort:            v.GetInt("SMTP_PORT"),
		SMTPUsername:        v.GetString("SMTP_USERNAME"),
		SMTPPassword:        v.GetString("SMTP_PASSWORD"),
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.MailBackend {
	case "log", "smtp":
	default:
		return fmt.Errorf("unsupported MAIL_BACKEND %q", c.MailBackend)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.ConfirmationCodeTTL < 0 {
		return fmt.Errorf("CONFIRMATION_CODE_TTL must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
