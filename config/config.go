// Package config loads codelai settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/codelai"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Cache types.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Defaults applied before the file and environment are read.
const (
	DefaultProvider = ProviderGemini
	DefaultAddr     = "127.0.0.1:8080"
	DefaultTimeout  = 2 * time.Minute
	DefaultCacheTTL = 3600
)

// ServerConfig configures the HTTP view.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// CacheConfig selects and configures the response cache.
type CacheConfig struct {
	Type      string `yaml:"type"`
	TTL       int    `yaml:"ttl"` // seconds, 0 = no expiry
	RedisURL  string `yaml:"redis_url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Config is the complete structure of a codelai.yaml file.
type Config struct {
	Provider          string        `yaml:"provider"`
	APIKey            string        `yaml:"api_key"`
	Model             string        `yaml:"model"`
	BaseURL           string        `yaml:"base_url"`
	Temperature       float32       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	TargetLang        string        `yaml:"target_lang"`

	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`

	keyFromEnv bool
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Provider:   DefaultProvider,
		Timeout:    DefaultTimeout,
		TargetLang: codelai.DefaultTargetLang,
		Server:     ServerConfig{Addr: DefaultAddr},
		Cache: CacheConfig{
			Type: CacheNone,
			TTL:  DefaultCacheTTL,
		},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when path is empty) and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - user-specified config file
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CODELAI_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("CODELAI_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("CODELAI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("CODELAI_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CODELAI_REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
		if c.Cache.Type == CacheNone || c.Cache.Type == "" {
			c.Cache.Type = CacheRedis
		}
	}
	if c.APIKey == "" {
		c.APIKey = c.envAPIKey()
		c.keyFromEnv = c.APIKey != ""
	}
}

// SetProvider switches the provider. A key taken from the environment is
// looked up again for the new provider; a key from the file is kept.
func (c *Config) SetProvider(name string) {
	c.Provider = name
	if c.APIKey == "" || c.keyFromEnv {
		c.APIKey = c.envAPIKey()
		c.keyFromEnv = c.APIKey != ""
	}
}

// envAPIKey returns the key from the variable matching the provider.
func (c *Config) envAPIKey() string {
	var names []string
	switch strings.ToLower(c.Provider) {
	case ProviderOpenAI:
		names = []string{"OPENAI_API_KEY", "API_KEY"}
	default:
		names = []string{"GEMINI_API_KEY", "API_KEY"}
	}
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Validate reports every problem with the configuration, joined.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Provider) {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderGemini, ProviderOpenAI))
	}

	switch c.Cache.Type {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache.redis_url is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache type %q", c.Cache.Type))
	}

	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("max_retries must not be negative"))
	}
	if c.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests_per_minute must not be negative"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature))
	}

	return errors.Join(errs...)
}
