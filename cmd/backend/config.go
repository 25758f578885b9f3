package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	Storage    StorageConfig
	Log        LogConfig
	Generation GenerationConfig
	OpenAI     OpenAIConfig
	Bedrock    BedrockConfig
	Caption    CaptionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SessionConfig holds session management configuration.
type SessionConfig struct {
	CookieName      string
	CookieSecret    string
	Duration        time.Duration
	Secure          bool
	CleanupInterval time.Duration
}

// StorageConfig holds staged upload configuration.
type StorageConfig struct {
	Type     string // "local" or "s3"
	BaseDir  string // For local: "./uploads"
	S3Bucket string // For S3: bucket name
	S3Region string // For S3: AWS region
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// GenerationConfig selects the provider and the model catalog.
type GenerationConfig struct {
	Provider     string // "openai" or "bedrock"
	Models       []string
	DefaultModel string
}

// OpenAIConfig holds OpenAI client configuration.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// BedrockConfig holds AWS Bedrock client configuration.
type BedrockConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

// CaptionConfig controls image captioning.
type CaptionConfig struct {
	Enabled bool
	Model   string
}

// LoadConfig loads configuration from file and environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Enable environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// OPENAI_API_KEY is the conventional variable name
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")

	v.SetDefault("session.cookie_name", "std_session")
	v.SetDefault("session.cookie_secret", "change-this-secret-in-production-min-32-chars")
	v.SetDefault("session.duration", "24h")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.cleanup_interval", "5m")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_dir", "./uploads")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "us-east-1")

	v.SetDefault("log.level", "info")

	v.SetDefault("generation.provider", "openai")
	v.SetDefault("generation.models", []string{})
	v.SetDefault("generation.default_model", "")

	v.SetDefault("openai.base_url", "")

	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.access_key", "")
	v.SetDefault("bedrock.secret_key", "")

	v.SetDefault("caption.enabled", true)
	v.SetDefault("caption.model", "gpt-4o-mini")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults
	}

	// Parse configuration
	var config Config

	config.Server.Host = v.GetString("server.host")
	config.Server.Port = v.GetInt("server.port")
	config.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	config.Server.WriteTimeout = v.GetDuration("server.write_timeout")

	config.Session.CookieName = v.GetString("session.cookie_name")
	config.Session.CookieSecret = v.GetString("session.cookie_secret")
	config.Session.Duration = v.GetDuration("session.duration")
	config.Session.Secure = v.GetBool("session.secure")
	config.Session.CleanupInterval = v.GetDuration("session.cleanup_interval")

	config.Storage.Type = v.GetString("storage.type")
	config.Storage.BaseDir = v.GetString("storage.base_dir")
	config.Storage.S3Bucket = v.GetString("storage.s3_bucket")
	config.Storage.S3Region = v.GetString("storage.s3_region")

	config.Log.Level = v.GetString("log.level")

	config.Generation.Provider = strings.ToLower(v.GetString("generation.provider"))
	config.Generation.Models = v.GetStringSlice("generation.models")
	config.Generation.DefaultModel = v.GetString("generation.default_model")

	config.OpenAI.APIKey = v.GetString("openai.api_key")
	config.OpenAI.BaseURL = v.GetString("openai.base_url")

	config.Bedrock.Region = v.GetString("bedrock.region")
	config.Bedrock.AccessKey = v.GetString("bedrock.access_key")
	config.Bedrock.SecretKey = v.GetString("bedrock.secret_key")

	config.Caption.Enabled = v.GetBool("caption.enabled")
	config.Caption.Model = v.GetString("caption.model")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Generation.Provider {
	case "openai", "bedrock":
	default:
		return fmt.Errorf("unsupported generation provider: %s", c.Generation.Provider)
	}
	if len(c.Session.CookieSecret) < 32 {
		return fmt.Errorf("session.cookie_secret must be at least 32 characters")
	}
	if c.Session.Duration <= 0 {
		return fmt.Errorf("session.duration must be positive")
	}
	if c.Session.CleanupInterval <= 0 {
		return fmt.Errorf("session.cleanup_interval must be positive")
	}
	return nil
}
