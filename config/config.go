// Package config loads service configuration from the environment, .env
// files and an optional TOML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the resolved service configuration.
type Config struct {
	Port            string
	GinMode         string
	Debug           bool
	DevMode         bool
	DataDir         string
	RateLimitRPS    float64
	RateLimitBurst  int
	CacheSize       int
	CacheTTL        time.Duration
	MaxContentBytes int
	MaxKeywords     int
	WordsPerMinute  float64
	SyllableDict    string
}

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Server  ServerConfig  `toml:"server"`
	Scoring ScoringConfig `toml:"scoring"`
	Cache   CacheConfig   `toml:"cache"`
}

// ServerConfig maps server settings.
type ServerConfig struct {
	Port           *string  `toml:"port"`
	DataDir        *string  `toml:"data-dir"`
	RateLimitRPS   *float64 `toml:"rate-limit-rps"`
	RateLimitBurst *int     `toml:"rate-limit-burst"`
	MaxContentSize *int     `toml:"max-content-bytes"`
}

// ScoringConfig maps scoring settings.
type ScoringConfig struct {
	MaxKeywords    *int     `toml:"max-keywords"`
	WordsPerMinute *float64 `toml:"words-per-minute"`
	SyllableDict   *string  `toml:"syllable-dictionary"`
}

// CacheConfig maps result cache settings.
type CacheConfig struct {
	Size *int    `toml:"size"`
	TTL  *string `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            "8082",
		GinMode:         "release",
		DataDir:         "data",
		RateLimitRPS:    2,
		RateLimitBurst:  5,
		CacheSize:       1000,
		CacheTTL:        30 * time.Minute,
		MaxContentBytes: 1 << 20,
		MaxKeywords:     10,
		WordsPerMinute:  200,
	}
}

// LoadEnv loads .env.development, falling back to .env. It reports whether
// a file was found.
func LoadEnv() bool {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			return false
		}
	}
	return true
}

// Load resolves the configuration: defaults, then the TOML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := cfg.apply(file); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return fc, nil
}

func (c *Config) apply(fc FileConfig) error {
	if fc.Server.Port != nil {
		c.Port = *fc.Server.Port
	}
	if fc.Server.DataDir != nil {
		c.DataDir = *fc.Server.DataDir
	}
	if fc.Server.RateLimitRPS != nil {
		c.RateLimitRPS = *fc.Server.RateLimitRPS
	}
	if fc.Server.RateLimitBurst != nil {
		c.RateLimitBurst = *fc.Server.RateLimitBurst
	}
	if fc.Server.MaxContentSize != nil {
		c.MaxContentBytes = *fc.Server.MaxContentSize
	}
	if fc.Scoring.MaxKeywords != nil {
		c.MaxKeywords = *fc.Scoring.MaxKeywords
	}
	if fc.Scoring.WordsPerMinute != nil {
		c.WordsPerMinute = *fc.Scoring.WordsPerMinute
	}
	if fc.Scoring.SyllableDict != nil {
		c.SyllableDict = *fc.Scoring.SyllableDict
	}
	if fc.Cache.Size != nil {
		c.CacheSize = *fc.Cache.Size
	}
	if fc.Cache.TTL != nil {
		ttl, err := time.ParseDuration(*fc.Cache.TTL)
		if err != nil {
			return fmt.Errorf("invalid cache ttl %q: %w", *fc.Cache.TTL, err)
		}
		c.CacheTTL = ttl
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnvString("PORT", c.Port)
	c.GinMode = getEnvString("GIN_MODE", c.GinMode)
	c.DataDir = getEnvString("DATA_DIR", c.DataDir)
	c.SyllableDict = getEnvString("SYLLABLE_DICT", c.SyllableDict)
	c.Debug = getEnvBool("DEBUG", c.Debug)
	c.DevMode = getEnvBool("DEV_MODE", c.DevMode)

	var err error
	if c.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", c.RateLimitRPS); err != nil {
		return err
	}
	if c.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst); err != nil {
		return err
	}
	if c.CacheSize, err = getEnvInt("CACHE_SIZE", c.CacheSize); err != nil {
		return err
	}
	if c.MaxContentBytes, err = getEnvInt("MAX_CONTENT_BYTES", c.MaxContentBytes); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = ttl
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown gin mode %q", c.GinMode)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v rps burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.CacheSize < 0 || c.CacheTTL < 0 {
		return fmt.Errorf("cache size and ttl must not be negative")
	}
	if c.MaxContentBytes <= 0 {
		return fmt.Errorf("max content bytes must be positive, got %d", c.MaxContentBytes)
	}
	if c.MaxKeywords <= 0 || c.WordsPerMinute <= 0 {
		return fmt.Errorf("max keywords and words per minute must be positive")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	if value == "true" || value == "false" {
		return value == "true"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}
