package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "github.com/uigenlabs/uigen-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	OpenAICfg   OpenAIConfig            `envPrefix:"OPENAI_"`
	CallbackCfg CallbackConnectorConfig `envPrefix:"CALLBACK_"`

	// Generation limits
	GenerationCfg GenerationConfig `envPrefix:"GENERATION_"`

	// Snippet cache configuration
	CacheCfg CacheConfig `envPrefix:"CACHE_"`

	// Per-client rate limiting
	RateLimitCfg RateLimitConfig `envPrefix:"RATE_LIMIT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// OpenAIConfig holds the AI provider configuration
type OpenAIConfig struct {
	HTTPClientConfig
	APIKey              string               `env:"API_KEY,notEmpty"`
	BaseURL             string               `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model               string               `env:"MODEL" envDefault:"gpt-4o-mini"`
	MaxCompletionTokens int                  `env:"MAX_COMPLETION_TOKENS" envDefault:"2048"`
	Temperature         float64              `env:"TEMPERATURE" envDefault:"0.2"`
	PromptTokenBudget   int                  `env:"PROMPT_TOKEN_BUDGET" envDefault:"4096"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// CallbackConnectorConfig holds the async callback delivery configuration
type CallbackConnectorConfig struct {
	HTTPClientConfig
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// GenerationConfig holds request and history limits
type GenerationConfig struct {
	MaxPromptChars  int `env:"MAX_PROMPT_CHARS" envDefault:"8000"`
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"100"`
}

// CacheConfig holds the snippet cache configuration
type CacheConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// RateLimitConfig holds per-client request rate limits
type RateLimitConfig struct {
	PerSecond float64       `env:"PER_SECOND" envDefault:"2"`
	Burst     int           `env:"BURST" envDefault:"5"`
	ClientTTL time.Duration `env:"CLIENT_TTL" envDefault:"10m"`
}

// HTTPClientConfig holds outbound HTTP client tuning
type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"90s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if cfg.GenerationCfg.MaxPromptChars < 1 {
		errors = append(errors, fmt.Sprintf("GENERATION_MAX_PROMPT_CHARS must be positive, got %d", cfg.GenerationCfg.MaxPromptChars))
	}

	if cfg.GenerationCfg.DefaultPageSize < 1 || cfg.GenerationCfg.DefaultPageSize > cfg.GenerationCfg.MaxPageSize {
		errors = append(errors, fmt.Sprintf("GENERATION_DEFAULT_PAGE_SIZE must be between 1 and GENERATION_MAX_PAGE_SIZE(%d), got %d",
			cfg.GenerationCfg.MaxPageSize, cfg.GenerationCfg.DefaultPageSize))
	}

	if cfg.OpenAICfg.MaxCompletionTokens < 1 {
		errors = append(errors, fmt.Sprintf("OPENAI_MAX_COMPLETION_TOKENS must be positive, got %d", cfg.OpenAICfg.MaxCompletionTokens))
	}

	if cfg.OpenAICfg.Temperature < 0 || cfg.OpenAICfg.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("OPENAI_TEMPERATURE must be between 0 and 2, got %g", cfg.OpenAICfg.Temperature))
	}

	if cfg.OpenAICfg.PromptTokenBudget < 1 {
		errors = append(errors, fmt.Sprintf("OPENAI_PROMPT_TOKEN_BUDGET must be positive, got %d", cfg.OpenAICfg.PromptTokenBudget))
	}

	if cfg.RateLimitCfg.PerSecond <= 0 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_PER_SECOND must be positive, got %g", cfg.RateLimitCfg.PerSecond))
	}

	if cfg.RateLimitCfg.Burst < 1 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_BURST must be at least 1, got %d", cfg.RateLimitCfg.Burst))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
