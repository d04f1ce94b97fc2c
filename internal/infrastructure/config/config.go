package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
	Ingest   IngestConfig
	Analysis AnalysisConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds the SQLite store settings
type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
}

// IngestConfig holds CSV loading settings
type IngestConfig struct {
	Pattern   string   // glob for directory mode
	Encodings []string // fallback chain, tried in order
}

// AnalysisConfig holds the aggregation thresholds. Callers may
// override any of these per call; these are the documented defaults.
type AnalysisConfig struct {
	MaxGroupSize  int
	MaxDwellTime  time.Duration
	MinMenuOrders int
	MinComboCount int
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with POS_ prefix (e.g. POS_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Path:        v.GetString("database.path"),
			BusyTimeout: v.GetDuration("database.busy_timeout"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Ingest: IngestConfig{
			Pattern:   v.GetString("ingest.pattern"),
			Encodings: v.GetStringSlice("ingest.encodings"),
		},
		Analysis: AnalysisConfig{
			MaxGroupSize:  v.GetInt("analysis.max_group_size"),
			MaxDwellTime:  v.GetDuration("analysis.max_dwell_time"),
			MinMenuOrders: v.GetInt("analysis.min_menu_orders"),
			MinComboCount: v.GetInt("analysis.min_combo_count"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pos-analytics"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "database/restaurant_sales.db"
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 5 * time.Second
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Ingest.Pattern == "" {
		cfg.Ingest.Pattern = "*.csv"
	}
	if len(cfg.Ingest.Encodings) == 0 {
		cfg.Ingest.Encodings = []string{"utf-8", "utf-8-sig", "windows-1252"}
	}
	if cfg.Analysis.MaxGroupSize == 0 {
		cfg.Analysis.MaxGroupSize = 50
	}
	if cfg.Analysis.MaxDwellTime == 0 {
		cfg.Analysis.MaxDwellTime = 4 * time.Hour
	}
	if cfg.Analysis.MinMenuOrders == 0 {
		cfg.Analysis.MinMenuOrders = 10
	}
	if cfg.Analysis.MinComboCount == 0 {
		cfg.Analysis.MinComboCount = 10
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Analysis.MaxGroupSize < 1 {
		return fmt.Errorf("analysis.max_group_size must be positive")
	}
	if c.Analysis.MaxDwellTime <= 0 {
		return fmt.Errorf("analysis.max_dwell_time must be positive")
	}
	if c.Analysis.MinMenuOrders < 0 {
		return fmt.Errorf("analysis.min_menu_orders cannot be negative")
	}
	if c.Analysis.MinComboCount < 1 {
		return fmt.Errorf("analysis.min_combo_count must be positive")
	}
	return nil
}

// DSN returns the SQLite connection string with pragmas applied
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=off", d.Path, d.BusyTimeout.Milliseconds())
}
