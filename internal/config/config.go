package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo

	"github.com/joho/godotenv"
)

// ErrMissingToken is returned when BOT_TOKEN is absent or empty.
var ErrMissingToken = errors.New("BOT_TOKEN is empty: set it in the environment or .env file")

// Config is the immutable runtime configuration, read once at startup.
type Config struct {
	Token           string
	CommunityChatID string
	TopicGroupID    string
	TopicThreadID   int // 0 = unset
	Timezone        string
	Location        *time.Location
	Port            string
	LogLevel        string
	LogFormat       string
	ContentFile     string
	PollTimeout     int

	// Warnings lists invalid optional values that were replaced by defaults.
	// The caller logs them once a logger exists.
	Warnings []string
}

// CommunityConfigured reports whether community broadcasts have a destination.
func (c *Config) CommunityConfigured() bool {
	return c.CommunityChatID != ""
}

// TopicConfigured reports whether both the topic group and its thread are set.
func (c *Config) TopicConfigured() bool {
	return c.TopicGroupID != "" && c.TopicThreadID != 0
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default .env) into the
// process environment. Variables already set are left alone and missing files
// are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}
	var existing []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat env file %s: %w", p, err)
		}
		existing = append(existing, p)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and fails fast when the token is missing.
func FromEnv(getenv func(string) string) (*Config, error) {
	if strings.TrimSpace(getenv(EnvToken)) == "" {
		return nil, ErrMissingToken
	}
	return Parse(getenv)
}

// Parse builds and validates a Config from getenv without requiring a token.
// Commands that never talk to Telegram (schedule) use it directly.
func Parse(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Token:           strings.TrimSpace(getenv(EnvToken)),
		CommunityChatID: strings.TrimSpace(getenv(EnvCommunityChatID)),
		TopicGroupID:    strings.TrimSpace(getenv(EnvTopicGroupID)),
		TopicThreadID:   parseThreadID(getenv(EnvTopicThreadID)),
		Timezone:        getEnv(getenv, EnvTimezone, DefaultTimezone),
		Port:            getEnv(getenv, EnvPort, DefaultPort),
		LogLevel:        strings.ToLower(getEnv(getenv, EnvLogLevel, DefaultLogLevel)),
		LogFormat:       strings.ToLower(getEnv(getenv, EnvLogFormat, DefaultLogFormat)),
		ContentFile:     strings.TrimSpace(getenv(EnvContentFile)),
		PollTimeout:     DefaultPollTimeout,
	}
	if v := strings.TrimSpace(getenv(EnvPollTimeout)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollTimeout = n
		} else {
			cfg.warnf("POLL_TIMEOUT %q is not a number, using %d", v, DefaultPollTimeout)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate resolves the time zone into cfg.Location. An unknown TIMEZONE is
// an error; other invalid optional values fall back to their defaults and are
// recorded in cfg.Warnings.
func Validate(cfg *Config) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q is not a known IANA zone", cfg.Timezone)
	}
	cfg.Location = loc

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		cfg.warnf("PORT %q is not a port between 1 and 65535, using %s", cfg.Port, DefaultPort)
		cfg.Port = DefaultPort
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		cfg.warnf("LOG_LEVEL %q is not one of debug, info, warn, error; using %s", cfg.LogLevel, DefaultLogLevel)
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogFormat {
	case "text", "json":
		// valid
	default:
		cfg.warnf("LOG_FORMAT %q is not text or json, using %s", cfg.LogFormat, DefaultLogFormat)
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.PollTimeout < 0 || cfg.PollTimeout > 600 {
		cfg.warnf("POLL_TIMEOUT %d is outside 0..600 seconds, using %d", cfg.PollTimeout, DefaultPollTimeout)
		cfg.PollTimeout = DefaultPollTimeout
	}
	return nil
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Sanitize returns a copy safe for logging, with the bot token masked.
func Sanitize(cfg *Config) Config {
	out := *cfg
	out.Token = maskToken(cfg.Token)
	return out
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	// Telegram tokens look like "<bot id>:<secret>"; the bot id is not secret.
	if i := strings.Index(token, ":"); i > 0 {
		return token[:i] + ":****"
	}
	return "****"
}

// parseThreadID returns 0 for absent or non-numeric values; the topic
// destination is then treated as unconfigured.
func parseThreadID(v string) int {
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return id
}

func getEnv(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}
