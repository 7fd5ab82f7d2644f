package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied before config files and environment are read.
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultTokenLifetime     = 60
	DefaultMaxOpenConns      = 10
	DefaultMaxIdleConns      = 5
	DefaultConnMaxLifetime   = "5m"
	DefaultEndpoint          = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModelName         = "openai/gpt-4o-mini"
	DefaultRequestTimeout    = "30s"
	DefaultMaxRetries        = 3
	DefaultRetryBaseDelay    = "1s"
	DefaultRetryMaxDelay     = "10s"
	DefaultGenerationTimeout = "60s"
)

// envKeys lists every key that can come from the environment. viper only
// binds environment variables for keys it already knows about, so keys
// without defaults must be bound explicitly.
var envKeys = []string{
	"server.port",
	"server.log_level",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"llm.api_key",
	"llm.endpoint",
	"llm.model_name",
	"llm.request_timeout",
	"llm.max_retries",
	"llm.retry_base_delay",
	"llm.retry_max_delay",
	"llm.generation_timeout",
	"llm.app_url",
	"llm.app_title",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Variables use the SCRY_ prefix with sections separated by underscores,
// e.g. SCRY_LLM_API_KEY. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultConnMaxLifetime)
	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetime)
	v.SetDefault("llm.endpoint", DefaultEndpoint)
	v.SetDefault("llm.model_name", DefaultModelName)
	v.SetDefault("llm.request_timeout", DefaultRequestTimeout)
	v.SetDefault("llm.max_retries", DefaultMaxRetries)
	v.SetDefault("llm.retry_base_delay", DefaultRetryBaseDelay)
	v.SetDefault("llm.retry_max_delay", DefaultRetryMaxDelay)
	v.SetDefault("llm.generation_timeout", DefaultGenerationTimeout)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SCRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
