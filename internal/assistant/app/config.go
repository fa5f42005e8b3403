package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	assistanthttp "github.com/littledragon/assistant/internal/assistant/http"
	"github.com/littledragon/assistant/internal/assistant/provider"
	"github.com/littledragon/assistant/internal/assistant/session"
)

// Config collects every runtime setting. Values come from the environment,
// optionally overlaid by a YAML file named in ASSISTANT_CONFIG.
type Config struct {
	Port      string `yaml:"port"`
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	SessionSecret  string        `yaml:"session_secret"`
	TokenIssuer    string        `yaml:"token_issuer"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	DatabaseFile string `yaml:"database_file"`

	Provider             provider.Backend `yaml:"provider"`
	OpenAIAPIKey         string           `yaml:"openai_api_key"`
	AnthropicAPIKey      string           `yaml:"anthropic_api_key"`
	Model                string           `yaml:"model"`
	Temperature          float64          `yaml:"temperature"`
	MaxCompletionTokens  int64            `yaml:"max_completion_tokens"`

	SessionStore     session.StoreType           `yaml:"session_store"`
	RedisAddr        string                      `yaml:"redis_addr"`
	RedisPassword    string                      `yaml:"redis_password"`
	RedisDB          int                         `yaml:"redis_db"`
	SessionTTL       time.Duration               `yaml:"session_ttl"`
	SessionTransport assistanthttp.TransportMode `yaml:"session_transport"`
	CookieMaxAge     int                         `yaml:"cookie_max_age"`

	ContextLimit    int    `yaml:"context_limit"`
	ContextStrategy string `yaml:"context_strategy"` // window | recall

	QdrantHost       string `yaml:"qdrant_host"`
	QdrantPort       int    `yaml:"qdrant_port"`
	QdrantAPIKey     string `yaml:"qdrant_api_key"`
	QdrantUseTLS     bool   `yaml:"qdrant_use_tls"`
	QdrantCollection string `yaml:"qdrant_collection"`

	OpenWeatherAPIKey string `yaml:"openweather_api_key"`

	HousekeepingInterval time.Duration `yaml:"housekeeping_interval"`
	PruneRevokedTokens   bool          `yaml:"prune_revoked_tokens"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
}

// LoadConfig reads configuration from the environment with sane defaults,
// then overlays the YAML file in ASSISTANT_CONFIG when set.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		SessionSecret:  os.Getenv("SESSION_SECRET"),
		TokenIssuer:    getEnvOrDefault("TOKEN_ISSUER", "assistant"),
		AccessTokenTTL: getEnvDurationOrDefault("ACCESS_TOKEN_TTL", 30*time.Minute),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "assistant.db"),

		Provider:            provider.Backend(getEnvOrDefault("PROVIDER", "openai")),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:     os.Getenv("ANTHROPIC_API_KEY"),
		Model:               os.Getenv("MODEL"),
		Temperature:         getEnvFloatOrDefault("TEMPERATURE", 0.7),
		MaxCompletionTokens: int64(getEnvIntOrDefault("MAX_COMPLETION_TOKENS", 1000)),

		SessionStore:     session.StoreType(getEnvOrDefault("SESSION_STORE", "memory")),
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvIntOrDefault("REDIS_DB", 0),
		SessionTTL:       getEnvDurationOrDefault("SESSION_TTL", time.Hour),
		SessionTransport: assistanthttp.TransportMode(getEnvOrDefault("SESSION_TRANSPORT", "cookie")),
		CookieMaxAge:     getEnvIntOrDefault("COOKIE_MAX_AGE", 3600),

		ContextLimit:    getEnvIntOrDefault("CONTEXT_LIMIT", session.DefaultContextLimit),
		ContextStrategy: getEnvOrDefault("CONTEXT_STRATEGY", "window"),

		QdrantHost:       getEnvOrDefault("QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvIntOrDefault("QDRANT_PORT", 6334),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantUseTLS:     getEnvBoolOrDefault("QDRANT_USE_TLS", false),
		QdrantCollection: getEnvOrDefault("QDRANT_COLLECTION", "assistant_memories"),

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),

		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
		PruneRevokedTokens:   getEnvBoolOrDefault("PRUNE_REVOKED_TOKENS", false),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if path := os.Getenv("ASSISTANT_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
