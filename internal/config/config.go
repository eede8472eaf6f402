// Package config handles application configuration. Values start from
// development defaults, are overlaid by an optional YAML file and then by
// environment variables. It provides a centralized Config struct used
// across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// defaultDBPassword must be replaced in production.
const defaultDBPassword = "changeme"

// Config holds all application configuration values. Keys are the
// lowercased environment variable names, so APP_PORT and `app_port:` in
// the YAML file set the same field.
type Config struct {
	// Server settings
	Host      string `koanf:"app_host"`
	Port      string `koanf:"app_port"`
	Env       string `koanf:"app_env"`    // "development", "production", "testing"
	LogFormat string `koanf:"log_format"` // "text" or "json"

	// PostgreSQL connection
	DBHost     string `koanf:"postgres_host"`
	DBPort     string `koanf:"postgres_port"`
	DBUser     string `koanf:"postgres_user"`
	DBPassword string `koanf:"postgres_password"`
	DBName     string `koanf:"postgres_db"`

	// Valkey (Redis-compatible cache and sessions)
	ValkeyHost     string `koanf:"valkey_host"`
	ValkeyPort     string `koanf:"valkey_port"`
	ValkeyPassword string `koanf:"valkey_password"`

	// S3-compatible object storage; storage is disabled without keys
	S3Endpoint  string `koanf:"s3_endpoint"`
	S3Region    string `koanf:"s3_region"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
	S3Bucket    string `koanf:"s3_bucket"`
	S3PublicURL string `koanf:"s3_public_url"`

	// AI provider settings
	AIProvider string `koanf:"ai_provider"` // "openai", "gemini", "claude", "mistral"

	OpenAIKey        string `koanf:"openai_api_key"`
	OpenAIModel      string `koanf:"openai_model"`
	OpenAIImageModel string `koanf:"openai_image_model"`
	OpenAIBaseURL    string `koanf:"openai_base_url"`

	ClaudeKey     string `koanf:"claude_api_key"`
	ClaudeModel   string `koanf:"claude_model"`
	ClaudeBaseURL string `koanf:"claude_base_url"`

	GeminiKey        string `koanf:"gemini_api_key"`
	GeminiModel      string `koanf:"gemini_model"`
	GeminiImageModel string `koanf:"gemini_image_model"`
	GeminiBaseURL    string `koanf:"gemini_base_url"`

	MistralKey     string `koanf:"mistral_api_key"`
	MistralModel   string `koanf:"mistral_model"`
	MistralBaseURL string `koanf:"mistral_base_url"`

	// Stock photos
	UnsplashKey     string `koanf:"unsplash_access_key"`
	UnsplashBaseURL string `koanf:"unsplash_base_url"`

	// Site generation
	TemplatesDir   string `koanf:"templates_dir"` // empty uses the embedded catalog
	BaseDomain     string `koanf:"base_domain"`
	GenerationCost int    `koanf:"generation_cost"`
	SignupCredits  int    `koanf:"signup_credits"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Host:      "0.0.0.0",
		Port:      "8080",
		Env:       "development",
		LogFormat: "text",

		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "pagesmith",
		DBPassword: defaultDBPassword,
		DBName:     "pagesmith",

		ValkeyHost: "localhost",
		ValkeyPort: "6379",

		S3Region: "us-east-1",
		S3Bucket: "pagesmith",

		AIProvider: "openai",

		OpenAIModel:      "gpt-4o",
		OpenAIImageModel: "dall-e-3",
		OpenAIBaseURL:    "https://api.openai.com/v1",

		ClaudeModel:   "claude-sonnet-4-5",
		ClaudeBaseURL: "https://api.anthropic.com",

		GeminiModel:   "gemini-2.5-flash",
		GeminiBaseURL: "https://generativelanguage.googleapis.com",

		MistralModel:   "mistral-large-latest",
		MistralBaseURL: "https://api.mistral.ai/v1",

		UnsplashBaseURL: "https://api.unsplash.com",

		BaseDomain:     "pagesmith.localhost",
		GenerationCost: 1,
		SignupCredits:  10,
	}
}

// Load reads the configuration. path may be empty or name a file that
// does not exist, in which case only defaults and the environment apply.
// Empty environment variables are treated as unset. Returns an error if
// critical values are invalid, or missing in production mode.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("access config %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	if c.Env == "production" && c.DBPassword == defaultDBPassword {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat)
	}
	if strings.TrimSpace(c.BaseDomain) == "" {
		return fmt.Errorf("BASE_DOMAIN is required")
	}
	if c.GenerationCost < 0 {
		return fmt.Errorf("GENERATION_COST must be non-negative")
	}
	if c.SignupCredits < 0 {
		return fmt.Errorf("SIGNUP_CREDITS must be non-negative")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
