package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	LLM            LLMConfig            `mapstructure:"llm"`
	Search         SearchConfig         `mapstructure:"search"`
	Catalog        CatalogConfig        `mapstructure:"catalog"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Log            LogConfig            `mapstructure:"log"`
}

// LLMConfig holds the Ollama-compatible generate endpoint configuration
type LLMConfig struct {
	BaseURL      string  `mapstructure:"base_url" validate:"required,url"`
	Model        string  `mapstructure:"model" validate:"required"`
	MaxTokens    int     `mapstructure:"max_tokens" validate:"gt=0"`
	Temperature  float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	StopSequence string  `mapstructure:"stop_sequence"`
	Timeout      int     `mapstructure:"timeout" validate:"gte=0"`
}

// SearchConfig holds Mercari search API configuration
type SearchConfig struct {
	BaseURL              string   `mapstructure:"base_url" validate:"required,url"`
	Timeout              int      `mapstructure:"timeout" validate:"gte=0"`
	MaxRetries           int      `mapstructure:"max_retries" validate:"gte=0"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second" validate:"gt=0"`
	PageSize             int      `mapstructure:"page_size" validate:"gt=0,lte=120"`
	Proxies              []string `mapstructure:"proxies" validate:"dive,url"`

	// Circuit breaker
	BreakerFailures uint32 `mapstructure:"breaker_failures" validate:"gt=0"`
	BreakerTimeout  int    `mapstructure:"breaker_timeout" validate:"gt=0"`
}

// CatalogConfig points at the category tree document
type CatalogConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format" validate:"oneof=json html"`
}

// RecommendationConfig bounds the recommendation prompt
type RecommendationConfig struct {
	ItemCount int `mapstructure:"item_count" validate:"gt=0"`
	TopN      int `mapstructure:"top_n" validate:"gt=0"`
}

// RedisConfig holds the optional search cache connection details
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TTL      int    `mapstructure:"ttl" validate:"gte=0"`
}

// DatabaseConfig holds the optional turn history database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// LogConfig holds logrus settings
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// Load loads configuration from YAML file with environment variable overrides.
// A missing config file is fine, defaults cover a local Ollama setup.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks field constraints and reports every failing field.
func Validate(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid config: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

// Defaults returns the configuration used when no file or environment overrides exist.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.model", "llama3.2")
	v.SetDefault("llm.max_tokens", 750)
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.stop_sequence", "\n\n")
	v.SetDefault("llm.timeout", 300)

	v.SetDefault("search.base_url", "https://api.mercari.jp")
	v.SetDefault("search.timeout", 30)
	v.SetDefault("search.max_retries", 2)
	v.SetDefault("search.max_requests_per_second", 2)
	v.SetDefault("search.page_size", 120)
	v.SetDefault("search.proxies", []string{})
	v.SetDefault("search.breaker_failures", 3)
	v.SetDefault("search.breaker_timeout", 60)

	v.SetDefault("catalog.path", "./facets/categories.json")
	v.SetDefault("catalog.format", "json")

	v.SetDefault("recommendation.item_count", 20)
	v.SetDefault("recommendation.top_n", 3)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.ttl", 600)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "shopper")
	v.SetDefault("database.user", "shopper_user")
	v.SetDefault("database.password", "shopper_pass")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
