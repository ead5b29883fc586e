package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/saumyapandey31/Phishnet/internal/util"
)

const envPrefix = "PHISHNET_"

// maxHistoryCapacity is the most scan history entries ever kept.
const maxHistoryCapacity = 10

// Config is the full runtime configuration.
type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	History    HistoryConfig    `yaml:"history"`
	Reports    ReportsConfig    `yaml:"reports"`
	Log        LogConfig        `yaml:"log"`

	// Warnings collects non-fatal validation findings for the caller to log.
	Warnings []string `yaml:"-"`
}

type ClassifierConfig struct {
	Endpoint string            `yaml:"endpoint"`
	Timeout  time.Duration     `yaml:"timeout"`
	Retries  int               `yaml:"retries"`
	Insecure bool              `yaml:"insecure"`
	Headers  map[string]string `yaml:"headers"`
}

type HistoryConfig struct {
	// Backend is one of file, sqlite, redis or memory.
	Backend     string `yaml:"backend"`
	Dir         string `yaml:"dir"`
	SQLitePath  string `yaml:"sqlite_path"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
	Key         string `yaml:"key"`
	Capacity    int    `yaml:"capacity"`
}

type ReportsConfig struct {
	DatabaseURL string `yaml:"database_url"`
	// UserID identifies the signed-in user. Empty means signed out.
	UserID string `yaml:"user_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML file at path (optional when empty or missing), merges
// .env and PHISHNET_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromBytes loads configuration from bytes without applying environment
// overrides.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath returns the config file location used when --config is unset.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "phishnet", "config.yaml")
	}
	return "phishnet.yaml"
}

func defaultDataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "phishnet")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "phishnet")
	}
	return ".phishnet"
}

func applyDefaults(cfg *Config) {
	if cfg.Classifier.Endpoint == "" {
		cfg.Classifier.Endpoint = "http://localhost:5000/api/check-url"
	}
	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = 5 * time.Second
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = "file"
	}
	if cfg.History.Dir == "" {
		cfg.History.Dir = defaultDataDir()
	}
	if cfg.History.SQLitePath == "" {
		cfg.History.SQLitePath = filepath.Join(cfg.History.Dir, "history.db")
	}
	if cfg.History.RedisURL == "" {
		cfg.History.RedisURL = "redis://localhost:6379/0"
	}
	if cfg.History.RedisPrefix == "" {
		cfg.History.RedisPrefix = "phishnet:"
	}
	if cfg.History.Key == "" {
		cfg.History.Key = "scanHistory"
	}
	if cfg.History.Capacity == 0 {
		cfg.History.Capacity = maxHistoryCapacity
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func applyEnvOverrides(cfg *Config) error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("CLASSIFIER_ENDPOINT", &cfg.Classifier.Endpoint)
	str("HISTORY_BACKEND", &cfg.History.Backend)
	str("HISTORY_DIR", &cfg.History.Dir)
	str("HISTORY_SQLITE_PATH", &cfg.History.SQLitePath)
	str("HISTORY_REDIS_URL", &cfg.History.RedisURL)
	str("HISTORY_KEY", &cfg.History.Key)
	str("REPORTS_DATABASE_URL", &cfg.Reports.DatabaseURL)
	str("USER_ID", &cfg.Reports.UserID)
	str("LOG_LEVEL", &cfg.Log.Level)

	if v := os.Getenv(envPrefix + "CLASSIFIER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sCLASSIFIER_TIMEOUT: %w", envPrefix, err)
		}
		cfg.Classifier.Timeout = d
	}
	if v := os.Getenv(envPrefix + "CLASSIFIER_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCLASSIFIER_RETRIES: %w", envPrefix, err)
		}
		cfg.Classifier.Retries = n
	}
	return nil
}

func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.Classifier.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("classifier.endpoint %q must be an absolute http(s) URL", cfg.Classifier.Endpoint)
	}
	if u.Scheme == "http" && !util.IsInternalHost(u.Hostname()) {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("classifier.endpoint %s is plain http to a public host; scanned URLs travel unencrypted", u.Host))
	}
	if cfg.Classifier.Timeout < 0 {
		return fmt.Errorf("classifier.timeout must be >= 0, 0 selects the default (got %s)", cfg.Classifier.Timeout)
	}
	if cfg.Classifier.Retries < 0 {
		return fmt.Errorf("classifier.retries must be >= 0 (got %d)", cfg.Classifier.Retries)
	}

	cfg.History.Backend = strings.ToLower(cfg.History.Backend)
	switch cfg.History.Backend {
	case "file", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("history.backend %q: want file, sqlite, redis or memory", cfg.History.Backend)
	}
	if cfg.History.Capacity < 0 || cfg.History.Capacity > maxHistoryCapacity {
		return fmt.Errorf("history.capacity must be between 1 and %d (got %d)", maxHistoryCapacity, cfg.History.Capacity)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", cfg.Log.Level)
	}
	return nil
}
