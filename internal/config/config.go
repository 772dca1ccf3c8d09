package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Search     SearchConfig     `mapstructure:"search"`
	Log        LogConfig        `mapstructure:"log"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	CacheSize    int    `mapstructure:"cache_size"` // LRU entries, 0 disables the cache
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// ClassifierConfig holds the genre classifier tunables
type ClassifierConfig struct {
	ConvertTraditional bool                  `mapstructure:"convert_traditional"`
	MaxTitleLength     int                   `mapstructure:"max_title_length"`
	MaxTextLength      int                   `mapstructure:"max_text_length"`
	MaxBatchSize       int                   `mapstructure:"max_batch_size"`
	Persist            bool                  `mapstructure:"persist"`
	Thresholds         classifier.Thresholds `mapstructure:"thresholds"`
}

// SearchConfig holds search configuration
type SearchConfig struct {
	MaxResults      int  `mapstructure:"max_results"`
	DefaultPageSize int  `mapstructure:"default_page_size"`
	EnablePinyin    bool `mapstructure:"enable_pinyin"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Level string `mapstructure:"level"`
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Options builds classifier options from the configuration
func (c ClassifierConfig) Options() classifier.Options {
	opts := classifier.DefaultOptions()
	opts.Thresholds = c.Thresholds
	opts.MaxTitleLength = c.MaxTitleLength
	opts.ConvertTraditional = c.ConvertTraditional
	return opts
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	cfg, err := load("", false)
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from .env, an optional file and environment variables
func Load(configPath string) (*Config, error) {
	return load(configPath, true)
}

func load(configPath string, useEnv bool) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	if useEnv {
		_ = godotenv.Load()
		bindEnvVars(v)
	}

	// Thresholds absent from the file keep their defaults
	cfg := Config{Classifier: ClassifierConfig{Thresholds: classifier.DefaultThresholds()}}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", "genre-analyses.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.cache_size", 1024)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"*"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 86400)
	v.SetDefault("classifier.convert_traditional", false)
	v.SetDefault("classifier.max_title_length", classifier.DefaultMaxTitleLength)
	v.SetDefault("classifier.max_text_length", 20000)
	v.SetDefault("classifier.max_batch_size", 100)
	v.SetDefault("classifier.persist", true)
	v.SetDefault("search.max_results", 1000)
	v.SetDefault("search.default_page_size", 20)
	v.SetDefault("search.enable_pinyin", true)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.level", "")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

func bindEnvVars(v *viper.Viper) {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		v.Set("server.mode", mode)
	}

	// Database
	if path := os.Getenv("DB_PATH"); path != "" {
		v.Set("database.path", path)
	}
	if size := os.Getenv("DB_CACHE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			v.Set("database.cache_size", n)
		}
	}

	// Rate Limit
	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		v.Set("rate_limit.enabled", enabled == "true")
	}
	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			v.Set("rate_limit.requests_per_second", r)
		}
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			v.Set("rate_limit.burst", b)
		}
	}

	// CORS
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		v.Set("cors.allowed_origins", strings.Split(origins, ","))
	}

	// Classifier
	if convert := os.Getenv("CLASSIFIER_CONVERT_TRADITIONAL"); convert != "" {
		v.Set("classifier.convert_traditional", convert == "true")
	}
	if persist := os.Getenv("CLASSIFIER_PERSIST"); persist != "" {
		v.Set("classifier.persist", persist == "true")
	}
	if maxLen := os.Getenv("CLASSIFIER_MAX_TEXT_LENGTH"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			v.Set("classifier.max_text_length", n)
		}
	}

	// Logging
	if debug := os.Getenv("LOG_DEBUG"); debug != "" {
		v.Set("log.debug", debug == "true")
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		v.Set("log.level", level)
	}

	// Tracing
	if enabled := os.Getenv("TRACING_ENABLED"); enabled != "" {
		v.Set("tracing.enabled", enabled == "true")
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" && c.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release', or 'test')", c.Server.Mode)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Database.CacheSize < 0 {
		return fmt.Errorf("database cache_size cannot be negative")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}

	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Classifier.MaxTextLength <= 0 {
		return fmt.Errorf("classifier max_text_length must be positive")
	}

	if c.Classifier.MaxBatchSize <= 0 {
		return fmt.Errorf("classifier max_batch_size must be positive")
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample_ratio must be between 0 and 1")
	}

	if err := c.Classifier.Thresholds.Validate(); err != nil {
		return errors.Join(errors.New("invalid classifier thresholds"), err)
	}

	return nil
}
