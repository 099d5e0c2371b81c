package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration loaded from YAML.
// Secrets (API keys, tokens, DSNs) come from the environment, not from here.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Booking   BookingConfig   `yaml:"booking"`
	Cache     CacheConfig     `yaml:"cache"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Bays      []BayConfig     `yaml:"bays"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// BayConfig maps one physical bay to its Google Calendar. The order of the
// bays list is the assignment tie-break order and must stay stable.
type BayConfig struct {
	Name       string `yaml:"name"`
	CalendarID string `yaml:"calendar_id"`
}

// BookingConfig holds the business parameters of the availability engine.
type BookingConfig struct {
	Timezone               string `yaml:"timezone"`
	OpeningHour            int    `yaml:"opening_hour"`
	ClosingHour            int    `yaml:"closing_hour"`
	MaxDurationHours       int    `yaml:"max_duration_hours"`
	GraceMinutes           int    `yaml:"grace_minutes"`
	BusyFailurePolicy      string `yaml:"busy_failure_policy"`
	CalendarTimeoutSeconds int    `yaml:"calendar_timeout_seconds"`
}

type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

type SchedulerConfig struct {
	Enabled         bool `yaml:"enabled"`
	WindowDays      int  `yaml:"window_days"`
	IntervalSeconds int  `yaml:"interval_seconds"`
}

// Load reads the configuration from the given path and applies defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "Asia/Bangkok"
	}
	if c.Booking.OpeningHour <= 0 {
		c.Booking.OpeningHour = 10
	}
	if c.Booking.ClosingHour <= 0 {
		c.Booking.ClosingHour = 22
	}
	if c.Booking.MaxDurationHours <= 0 {
		c.Booking.MaxDurationHours = 5
	}
	if c.Booking.GraceMinutes <= 0 {
		c.Booking.GraceMinutes = 30
	}
	if c.Booking.BusyFailurePolicy == "" {
		c.Booking.BusyFailurePolicy = "fail-open"
	}
	if c.Booking.CalendarTimeoutSeconds <= 0 {
		c.Booking.CalendarTimeoutSeconds = 10
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 600
	}
	if c.Scheduler.WindowDays <= 0 {
		c.Scheduler.WindowDays = 5
	}
	if c.Scheduler.IntervalSeconds <= 0 {
		c.Scheduler.IntervalSeconds = 120
	}
}

func (c *Config) validate() error {
	if len(c.Bays) == 0 {
		return fmt.Errorf("config: at least one bay must be configured")
	}
	for i, b := range c.Bays {
		if b.Name == "" || b.CalendarID == "" {
			return fmt.Errorf("config: bay %d is missing name or calendar_id", i)
		}
	}
	if c.Booking.ClosingHour <= c.Booking.OpeningHour {
		return fmt.Errorf("config: closing_hour (%d) must be after opening_hour (%d)",
			c.Booking.ClosingHour, c.Booking.OpeningHour)
	}
	switch c.Booking.BusyFailurePolicy {
	case "fail-open", "fail-closed", "abort":
	default:
		return fmt.Errorf("config: unknown busy_failure_policy %q", c.Booking.BusyFailurePolicy)
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("config: invalid timezone %q: %w", c.Booking.Timezone, err)
	}
	return nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Scheduler.IntervalSeconds) * time.Second
}

func (c *Config) CalendarTimeout() time.Duration {
	return time.Duration(c.Booking.CalendarTimeoutSeconds) * time.Second
}
