// Package config loads application settings from defaults, an optional
// config file, environment variables and command line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GERENCIADOR"

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	UI        UIConfig        `mapstructure:"ui"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	APIPath      string        `mapstructure:"api_path"`
}

// DatabaseConfig holds the connection settings.
type DatabaseConfig struct {
	Driver       string        `mapstructure:"driver"`
	DSN          string        `mapstructure:"dsn"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// RedisConfig holds the stats cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	StatsTTL time.Duration `mapstructure:"stats_ttl"`
}

// RateLimitConfig holds the per-IP limiter settings. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UIConfig holds the browser front-end settings.
type UIConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	Debounce   time.Duration `mapstructure:"debounce"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// MaxSessions caps live browser sessions; the least recently seen one
	// is dropped to admit a new one.
	MaxSessions int `mapstructure:"max_sessions"`
}

// TelemetryConfig holds tracing and metrics settings.
type TelemetryConfig struct {
	ServiceName      string  `mapstructure:"service_name"`
	Environment      string  `mapstructure:"environment"`
	OTLPEndpoint     string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure     bool    `mapstructure:"otlp_insecure"`
	TracesEnabled    bool    `mapstructure:"traces_enabled"`
	MetricsEnabled   bool    `mapstructure:"metrics_enabled"`
	TraceSampleRatio float64 `mapstructure:"trace_sample_ratio"`
	MetricsPath      string  `mapstructure:"metrics_path"`
}

// Load reads the configuration into a Config. Flags must already be bound to
// v; the "config" key, when set, names a config file to read.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.dsn", EnvPrefix+"_DATABASE_DSN", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("binding DATABASE_URL: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	normalizeConfig(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
			APIPath:      "/api",
		},
		Database: DatabaseConfig{
			Driver:       "pgx",
			QueryTimeout: 3 * time.Second,
		},
		Redis: RedisConfig{
			StatsTTL: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RPS:   5,
			Burst: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		UI: UIConfig{
			Debounce:    500 * time.Millisecond,
			SessionTTL:  30 * time.Minute,
			MaxSessions: 10000,
		},
		Telemetry: TelemetryConfig{
			ServiceName:      "gerenciador-itens",
			Environment:      "local",
			OTLPEndpoint:     "localhost:4318",
			OTLPInsecure:     true,
			TracesEnabled:    false,
			MetricsEnabled:   true,
			TraceSampleRatio: 1.0,
			MetricsPath:      "/metrics",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.api_path", d.Server.APIPath)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.query_timeout", d.Database.QueryTimeout)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.stats_ttl", d.Redis.StatsTTL)

	v.SetDefault("rate_limit.rps", d.RateLimit.RPS)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("ui.api_base_url", d.UI.APIBaseURL)
	v.SetDefault("ui.debounce", d.UI.Debounce)
	v.SetDefault("ui.session_ttl", d.UI.SessionTTL)
	v.SetDefault("ui.max_sessions", d.UI.MaxSessions)

	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("telemetry.environment", d.Telemetry.Environment)
	v.SetDefault("telemetry.otlp_endpoint", d.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.otlp_insecure", d.Telemetry.OTLPInsecure)
	v.SetDefault("telemetry.traces_enabled", d.Telemetry.TracesEnabled)
	v.SetDefault("telemetry.metrics_enabled", d.Telemetry.MetricsEnabled)
	v.SetDefault("telemetry.trace_sample_ratio", d.Telemetry.TraceSampleRatio)
	v.SetDefault("telemetry.metrics_path", d.Telemetry.MetricsPath)
}

func normalizeConfig(cfg *Config) {
	d := defaultConfig()

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = d.Server.Addr
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = d.Server.IdleTimeout
	}
	cfg.Server.APIPath = strings.TrimRight(cfg.Server.APIPath, "/")
	if cfg.Server.APIPath == "" {
		cfg.Server.APIPath = d.Server.APIPath
	}
	if !strings.HasPrefix(cfg.Server.APIPath, "/") {
		cfg.Server.APIPath = "/" + cfg.Server.APIPath
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = d.Database.Driver
	}
	if cfg.Database.MaxOpenConns < 0 {
		cfg.Database.MaxOpenConns = 0
	}
	if cfg.Database.QueryTimeout <= 0 {
		cfg.Database.QueryTimeout = d.Database.QueryTimeout
	}

	if cfg.Redis.StatsTTL <= 0 {
		cfg.Redis.StatsTTL = d.Redis.StatsTTL
	}

	if cfg.RateLimit.RPS < 0 {
		cfg.RateLimit.RPS = 0
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 1
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.Format != "json" {
		cfg.Log.Format = "text"
	}

	if cfg.UI.APIBaseURL == "" {
		cfg.UI.APIBaseURL = localBaseURL(cfg.Server.Addr)
	}
	cfg.UI.APIBaseURL = strings.TrimRight(cfg.UI.APIBaseURL, "/")
	if cfg.UI.Debounce < 0 {
		cfg.UI.Debounce = 0
	}
	if cfg.UI.SessionTTL <= 0 {
		cfg.UI.SessionTTL = d.UI.SessionTTL
	}
	if cfg.UI.MaxSessions <= 0 {
		cfg.UI.MaxSessions = d.UI.MaxSessions
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = d.Telemetry.ServiceName
	}
	if cfg.Telemetry.OTLPEndpoint == "" {
		cfg.Telemetry.OTLPEndpoint = d.Telemetry.OTLPEndpoint
	}
	if cfg.Telemetry.TraceSampleRatio <= 0 || cfg.Telemetry.TraceSampleRatio > 1 {
		cfg.Telemetry.TraceSampleRatio = 1.0
	}
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = d.Telemetry.MetricsPath
	}
}

// localBaseURL turns a listen address into the URL the UI uses to reach the
// API served by the same process.
func localBaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
