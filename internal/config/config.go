// Package config provides configuration for the thread review service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// AI providers selectable through AI_PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config holds the service configuration.
// Values come from the YAML file named by CONFIG_PATH when set, with
// environment variables taking precedence; otherwise from the environment.
type Config struct {
	// Server settings
	Host        string `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	HTTPPort    int    `yaml:"http_port" env:"HTTP_PORT" env-default:"5000"`
	CORSOrigins string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*"`

	// Database
	DatabasePath string `yaml:"database_path" env:"DATABASE_PATH" env-default:"threadreview.db"`

	AI AIConfig `yaml:"ai"`

	// Logging
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
}

// AIConfig configures the external summarization strategy.
// Secrets are only read from the environment.
type AIConfig struct {
	Provider        string  `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	OpenAIAPIKey    string  `yaml:"-" env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string  `yaml:"openai_base_url" env:"OPENAI_BASE_URL" env-default:""`
	OpenAIModel     string  `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-4"`
	AnthropicAPIKey string  `yaml:"-" env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string  `yaml:"anthropic_model" env:"ANTHROPIC_MODEL" env-default:"claude-3-5-haiku-latest"`
	Temperature     float32 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.3"`
	MaxTokens       int     `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"500"`
	TimeoutMs       int     `yaml:"timeout_ms" env:"AI_TIMEOUT_MS" env-default:"30000"`
}

// Timeout returns the external call timeout.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ExternalEnabled reports whether the configured provider has what it needs
// to be tried before the rule-based summarizer.
func (c AIConfig) ExternalEnabled() bool {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	case ProviderMock:
		return true
	}
	return false
}

// Load loads configuration from CONFIG_PATH (if set) and the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and enums.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port %d out of range", c.HTTPPort)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderMock:
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai temperature %v out of range [0, 2]", c.AI.Temperature)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai max_tokens must be positive")
	}
	if c.AI.TimeoutMs <= 0 {
		return fmt.Errorf("ai timeout_ms must be positive")
	}
	return nil
}
