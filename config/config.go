// Package config loads service configuration from defaults, an optional YAML
// file and the environment, in that order of precedence (last wins).
//
// A .env file, when present, is loaded into the process environment before
// the environment provider runs, so it behaves exactly like exported variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file path when no flag is given.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are probed in order when no explicit path is set.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Email     EmailConfig     `koanf:"email"`
	Admin     AdminConfig     `koanf:"admin"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	GinMode         string        `koanf:"gin_mode"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// AnalyticsConfig holds the ceilings, windows and thresholds of the
// in-memory analytics engine.
type AnalyticsConfig struct {
	VisitCapacity       int           `koanf:"visit_capacity"`
	ContactCapacity     int           `koanf:"contact_capacity"`
	VisitRecentWindow   time.Duration `koanf:"visit_recent_window"`
	ContactRecentWindow time.Duration `koanf:"contact_recent_window"`
	BounceThreshold     time.Duration `koanf:"bounce_threshold"`
	FastConversion      time.Duration `koanf:"fast_conversion"`
	TopN                int           `koanf:"top_n"`
	RecentVisitLimit    int           `koanf:"recent_visit_limit"`
	RecentContactLimit  int           `koanf:"recent_contact_limit"`
	// TimeZone names the IANA zone used for the hourly contact histogram.
	// "Local" means the server's zone.
	TimeZone string `koanf:"timezone"`
}

type EmailConfig struct {
	ResendAPIKey  string        `koanf:"resend_api_key"`
	ResendBaseURL string        `koanf:"resend_base_url"`
	From          string        `koanf:"from"`
	To            []string      `koanf:"to"`
	Timeout       time.Duration `koanf:"timeout"`
}

// Enabled reports whether the email relay has credentials to work with.
func (e EmailConfig) Enabled() bool {
	return e.ResendAPIKey != ""
}

type AdminConfig struct {
	// Password is hashed with bcrypt at startup; PasswordHash wins when both are set.
	Password     string        `koanf:"password"`
	PasswordHash string        `koanf:"password_hash"`
	APIKey       string        `koanf:"api_key"`
	JWTSecret    string        `koanf:"jwt_secret"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
}

// Enabled reports whether the report endpoints are gated.
func (a AdminConfig) Enabled() bool {
	return a.Password != "" || a.PasswordHash != ""
}

type RateLimitConfig struct {
	PerMinute int           `koanf:"per_minute"`
	Burst     int           `koanf:"burst"`
	IdleTTL   time.Duration `koanf:"idle_ttl"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "debug",
			CORSOrigins:     []string{"http://localhost:3000"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Analytics: AnalyticsConfig{
			VisitCapacity:       1000,
			ContactCapacity:     500,
			VisitRecentWindow:   24 * time.Hour,
			ContactRecentWindow: 7 * 24 * time.Hour,
			BounceThreshold:     10 * time.Second,
			FastConversion:      300 * time.Second,
			TopN:                10,
			RecentVisitLimit:    50,
			RecentContactLimit:  20,
			TimeZone:            "Local",
		},
		Email: EmailConfig{
			ResendBaseURL: "https://api.resend.com",
			From:          "onboarding@resend.dev",
			To:            []string{},
			Timeout:       10 * time.Second,
		},
		Admin: AdminConfig{
			SessionTTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			PerMinute: 120,
			Burst:     20,
			IdleTTL:   10 * time.Minute,
		},
	}
}

// Load builds the configuration. configPath may be empty, in which case
// CONFIG_PATH and DefaultConfigPaths are consulted. envFile may be empty or
// missing; a missing .env is not an error.
func Load(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(configPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"port":             "server.port",
	"gin_mode":         "server.gin_mode",
	"cors_origins":     "server.cors_origins",
	"fe_origin":        "server.cors_origins",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",

	"analytics_visit_capacity":        "analytics.visit_capacity",
	"analytics_contact_capacity":      "analytics.contact_capacity",
	"analytics_visit_recent_window":   "analytics.visit_recent_window",
	"analytics_contact_recent_window": "analytics.contact_recent_window",
	"analytics_bounce_threshold":      "analytics.bounce_threshold",
	"analytics_fast_conversion":       "analytics.fast_conversion",
	"analytics_top_n":                 "analytics.top_n",
	"analytics_recent_visit_limit":    "analytics.recent_visit_limit",
	"analytics_recent_contact_limit":  "analytics.recent_contact_limit",
	"analytics_timezone":              "analytics.timezone",

	"resend_api_key":  "email.resend_api_key",
	"resend_base_url": "email.resend_base_url",
	"from_email":      "email.from",
	"to_email":        "email.to",
	"email_timeout":   "email.timeout",

	"admin_password":      "admin.password",
	"admin_password_hash": "admin.password_hash",
	"admin_api_key":       "admin.api_key",
	"auth_default":        "admin.api_key",
	"jwt_secret_key":      "admin.jwt_secret",
	"admin_session_ttl":   "admin.session_ttl",

	"rate_limit_per_minute": "rate_limit.per_minute",
	"rate_limit_burst":      "rate_limit.burst",
	"rate_limit_idle_ttl":   "rate_limit.idle_ttl",
}

// envTransformFunc maps known environment variables onto config paths and
// drops everything else.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
	"email.to",
}

// splitSliceFields turns comma-separated env values into string slices.
func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		trimmed := []string{}
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	a := c.Analytics
	if a.VisitCapacity <= 0 {
		errs = append(errs, fmt.Errorf("analytics.visit_capacity must be positive, got %d", a.VisitCapacity))
	}
	if a.ContactCapacity <= 0 {
		errs = append(errs, fmt.Errorf("analytics.contact_capacity must be positive, got %d", a.ContactCapacity))
	}
	if a.VisitRecentWindow <= 0 || a.ContactRecentWindow <= 0 {
		errs = append(errs, errors.New("analytics recent windows must be positive"))
	}
	if a.BounceThreshold < 0 || a.FastConversion < 0 {
		errs = append(errs, errors.New("analytics thresholds must not be negative"))
	}
	if a.TopN <= 0 || a.RecentVisitLimit <= 0 || a.RecentContactLimit <= 0 {
		errs = append(errs, errors.New("analytics list limits must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 || c.RateLimit.IdleTTL <= 0 {
		errs = append(errs, errors.New("rate_limit settings must be positive"))
	}
	for _, o := range c.Server.CORSOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			errs = append(errs, fmt.Errorf("server.cors_origins: %q must be \"*\" or start with http:// or https://", o))
		}
	}
	if c.Admin.Enabled() && c.Admin.JWTSecret == "" {
		errs = append(errs, errors.New("admin.jwt_secret (JWT_SECRET_KEY) is required when an admin password is set"))
	}
	if c.Email.Enabled() && len(c.Email.To) == 0 {
		errs = append(errs, errors.New("email.to (TO_EMAIL) is required when RESEND_API_KEY is set"))
	}
	return errors.Join(errs...)
}

// Location resolves Analytics.TimeZone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Analytics.TimeZone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Analytics.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("analytics.timezone: %w", err)
	}
	return loc, nil
}
