package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"DemandCast/pkg/util"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	API         struct {
		BaseURL string        `yaml:"base_url" default:"http://127.0.0.1:8000"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Storage struct {
		Dir string `yaml:"dir"`
	} `yaml:"storage"`
	Cache struct {
		Backend string        `yaml:"backend" default:"file"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"demandcast"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Forecast struct {
		HistoryLimit int `yaml:"history_limit" default:"6"`
		DefaultDays  int `yaml:"default_days" default:"30"`
	} `yaml:"forecast"`
	Debug struct {
		Enabled         bool          `yaml:"enabled"`
		Host            string        `yaml:"host" default:"127.0.0.1"`
		Port            int           `yaml:"port" default:"9090"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"debug"`
	Logger struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"logger"`
}

// Load reads and parses a YAML configuration file. A missing file is not an
// error: the client runs on defaults when no config file is present.
func Load(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	c.normalize()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("DEMANDCAST_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("DEMANDCAST_STATE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("DEMANDCAST_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("DEMANDCAST_LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := splitHostPort(v)
		c.Cache.Redis.Host = host
		if port > 0 {
			c.Cache.Redis.Port = port
		}
	}

	return c, nil
}

// normalize fills values the defaults tags cannot express.
func (c *Config) normalize() {
	if c.API.Timeout <= 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.Debug.ReadTimeout <= 0 {
		c.Debug.ReadTimeout = 10 * time.Second
	}
	if c.Debug.WriteTimeout <= 0 {
		c.Debug.WriteTimeout = 10 * time.Second
	}
	if c.Debug.ShutdownTimeout <= 0 {
		c.Debug.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Storage.Dir = filepath.Join(home, ".demandcast")
		} else {
			c.Storage.Dir = ".demandcast"
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	switch c.Cache.Backend {
	case "file", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'file', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Forecast.HistoryLimit <= 0 {
		return fmt.Errorf("forecast.history_limit must be positive")
	}
	switch c.Forecast.DefaultDays {
	case 30, 60, 90:
	default:
		return fmt.Errorf("forecast.default_days must be 30, 60 or 90, got %d", c.Forecast.DefaultDays)
	}
	return nil
}

func splitHostPort(addr string) (string, int) {
	host := addr
	port := 0
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
		port = util.ParseIntDefault(addr[i+1:], 0)
	}
	return host, port
}
