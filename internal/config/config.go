package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes is the lifetime of tokens minted by the service.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`
}

// LLMConfig contains the chat-completions endpoint settings and the
// timing policy of the generation pipeline.
type LLMConfig struct {
	APIKey    string `mapstructure:"api_key" validate:"required"`
	Endpoint  string `mapstructure:"endpoint" validate:"required,url"`
	ModelName string `mapstructure:"model_name" validate:"required"`

	// RequestTimeout bounds a single HTTP attempt.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	MaxRetries     int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" validate:"gt=0"`
	RetryMaxDelay  time.Duration `mapstructure:"retry_max_delay" validate:"gtefield=RetryBaseDelay"`

	// GenerationTimeout bounds the whole AI phase of one generation,
	// retries included.
	GenerationTimeout time.Duration `mapstructure:"generation_timeout" validate:"gt=0"`

	// Attribution headers sent to OpenRouter. Optional.
	AppURL   string `mapstructure:"app_url" validate:"omitempty,url"`
	AppTitle string `mapstructure:"app_title"`
}
