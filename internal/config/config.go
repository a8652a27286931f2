// Package config loads prodsched settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/logging"
	"github.com/alexanderramin/prodsched/internal/scheduler"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadFromEnv.
const (
	EnvConfigPath = "PRODSCHED_CONFIG"
	EnvDatabase   = "PRODSCHED_DB"
	EnvLogLevel   = "PRODSCHED_LOG_LEVEL"
	EnvTimezone   = "PRODSCHED_TZ"
)

const defaultConfigYAML = `# prodsched configuration

# SQLite file path, or a postgres:// DSN.
database: ~/.prodsched/prodsched.db
timezone: UTC

log:
  level: warn
  format: console

schedule:
  working_hours: 8
  exclude_weekends: false
  safety_factor: "0.7"
  demand_window_days: 28
  recompute_every: 10
  max_iterations: 10000
  max_backfill_rounds: 50
  min_deferred_setup: 60
  risk_buffer_days: 2
  constraints:
    PRESS:
      enabled: true

metrics:
  addr: ":9464"
`

type ConstraintConfig struct {
	Enabled  bool `yaml:"enabled"`
	Capacity int  `yaml:"capacity,omitempty"`
}

type ScheduleConfig struct {
	WorkingHours      int                         `yaml:"working_hours"`
	ExcludeWeekends   bool                        `yaml:"exclude_weekends"`
	SafetyFactor      string                      `yaml:"safety_factor"`
	DemandWindowDays  int                         `yaml:"demand_window_days"`
	RecomputeEvery    int                         `yaml:"recompute_every"`
	MaxIterations     int                         `yaml:"max_iterations"`
	MaxBackfillRounds int                         `yaml:"max_backfill_rounds"`
	MinDeferredSetup  float64                     `yaml:"min_deferred_setup"`
	RiskBufferDays    int                         `yaml:"risk_buffer_days"`
	Constraints       map[string]ConstraintConfig `yaml:"constraints"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the full settings file.
type Config struct {
	Database string         `yaml:"database"`
	Timezone string         `yaml:"timezone"`
	Log      logging.Config `yaml:"log"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// Default returns the built-in settings.
func Default() *Config {
	var c Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &c); err != nil {
		panic(fmt.Sprintf("config: invalid built-in defaults: %v", err))
	}
	return &c
}

// DefaultPath returns ~/.prodsched/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".prodsched", "config.yaml")
	}
	return filepath.Join(home, ".prodsched", "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return c, nil
}

// LoadFromEnv resolves the config path from PRODSCHED_CONFIG (default
// ~/.prodsched/config.yaml), loads it, then applies environment overrides.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultPath()
	}
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides settings from the environment. getenv is os.Getenv
// outside tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDatabase); v != "" {
		c.Database = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if _, err := calendar.NetDailyMinutes(c.Schedule.WorkingHours); err != nil {
		return fmt.Errorf("schedule.working_hours: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Schedule.safetyFactor(); err != nil {
		return err
	}
	if c.Schedule.RiskBufferDays < 0 {
		return fmt.Errorf("schedule.risk_buffer_days must not be negative")
	}
	return nil
}

// DatabasePath expands a leading ~ in a SQLite path. DSNs are returned
// unchanged.
func (c *Config) DatabasePath() string {
	if strings.HasPrefix(c.Database, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.Database[2:])
		}
	}
	return c.Database
}

// Location loads the plant time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (s ScheduleConfig) safetyFactor() (decimal.Decimal, error) {
	if s.SafetyFactor == "" {
		return decimal.Zero, nil
	}
	f, err := decimal.NewFromString(s.SafetyFactor)
	if err != nil {
		return decimal.Zero, fmt.Errorf("schedule.safety_factor %q: %w", s.SafetyFactor, err)
	}
	if f.Sign() <= 0 || f.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("schedule.safety_factor %q must be in (0, 1]", s.SafetyFactor)
	}
	return f, nil
}

// Options converts the schedule section to planner options. Zero fields
// are left for the planner to default.
func (s ScheduleConfig) Options() (scheduler.Options, error) {
	factor, err := s.safetyFactor()
	if err != nil {
		return scheduler.Options{}, err
	}
	opts := scheduler.Options{
		SafetyFactor:      factor,
		DemandWindowDays:  s.DemandWindowDays,
		RecomputeEvery:    s.RecomputeEvery,
		MaxIterations:     s.MaxIterations,
		MaxBackfillRounds: s.MaxBackfillRounds,
		MinDeferredSetup:  s.MinDeferredSetup,
	}
	if len(s.Constraints) > 0 {
		opts.Constraints = make(scheduler.ResourceConstraints, len(s.Constraints))
		for mt, cc := range s.Constraints {
			opts.Constraints[strings.ToUpper(mt)] = scheduler.Constraint{Enabled: cc.Enabled, Capacity: cc.Capacity}
		}
	}
	return opts, nil
}

// WriteDefault creates path with the default settings unless it already
// exists. It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0644); err != nil {
		return false, err
	}
	return true, nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
