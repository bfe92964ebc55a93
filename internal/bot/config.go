// Package bot wires the conversation engine, storage, and notification
// services into a running Telegram application.
package bot

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/mediline/apptbot/core/config"
	coredatabase "github.com/mediline/apptbot/core/database"
	"github.com/mediline/apptbot/internal/notify"
)

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// SessionConfig selects where conversation sessions live.
type SessionConfig struct {
	Backend    string `yaml:"backend" envconfig:"SESSION_BACKEND"`
	RedisAddr  string `yaml:"redis_addr" envconfig:"SESSION_REDIS_ADDR"`
	RedisPass  string `yaml:"redis_password" envconfig:"SESSION_REDIS_PASSWORD"`
	RedisDB    int    `yaml:"redis_db" envconfig:"SESSION_REDIS_DB"`
	TTLMinutes int    `yaml:"ttl_minutes" envconfig:"SESSION_TTL_MINUTES"`
}

// EmailSection toggles and configures the confirmation mailer.
type EmailSection struct {
	Enabled            bool `yaml:"enabled" envconfig:"EMAIL_ENABLED"`
	notify.EmailConfig `yaml:",inline"`
}

// CalendarSection toggles and configures the Google Calendar integration.
type CalendarSection struct {
	Enabled               bool `yaml:"enabled" envconfig:"CALENDAR_ENABLED"`
	notify.CalendarConfig `yaml:",inline"`
}

// LocaleConfig selects the default reply language.
type LocaleConfig struct {
	Default string `yaml:"default" envconfig:"LOCALE_DEFAULT"`
}

// Config is the full application configuration: the shared core sections
// plus the appointment-bot specific ones.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Session  SessionConfig       `yaml:"session"`
	Email    EmailSection        `yaml:"email"`
	Calendar CalendarSection     `yaml:"calendar"`
	Locale   LocaleConfig        `yaml:"locale"`
}

// CoreConfig exposes the embedded core configuration for the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads YAML configuration, applies environment overrides, and
// validates both the core and application sections.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	backend := strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	if backend == "" {
		backend = SessionBackendMemory
	}
	switch backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if strings.TrimSpace(cfg.Session.RedisAddr) == "" {
			return fmt.Errorf("session.redis_addr is required when session.backend is 'redis'")
		}
	default:
		return fmt.Errorf("invalid session.backend %q; allowed: memory, redis", cfg.Session.Backend)
	}
	cfg.Session.Backend = backend
	if cfg.Session.TTLMinutes < 0 {
		return fmt.Errorf("session.ttl_minutes must be >= 0")
	}

	if cfg.Email.Enabled {
		if strings.TrimSpace(cfg.Email.From) == "" {
			return fmt.Errorf("email.from is required when email.enabled is true")
		}
	}
	if cfg.Calendar.Enabled {
		if strings.TrimSpace(cfg.Calendar.CredentialsFile) == "" {
			return fmt.Errorf("calendar.credentials_file is required when calendar.enabled is true")
		}
	}

	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = 5
	}
	if cfg.Locale.Default == "" {
		cfg.Locale.Default = "en"
	}
	return nil
}
