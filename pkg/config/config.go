package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Pipeline
	Strategy     string // lexical, similarity
	TaxonomyFile string // empty = embedded default taxonomy

	// External services
	Embedding EmbeddingConfig
	Redis     RedisConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	TracingEnabled bool
}

// Strategy names
const (
	StrategyLexical    = "lexical"
	StrategySimilarity = "similarity"
)

// Embedding provider names
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// EmbeddingConfig holds the text-embedding provider configuration
type EmbeddingConfig struct {
	Provider          string
	APIKey            string
	Model             string
	BaseURL           string
	Dimensions        int
	Timeout           time.Duration
	RequestsPerMinute int
	MaxRetries        int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	Enabled      bool
	EmbeddingTTL time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	provider := getEnv("EMBEDDING_PROVIDER", ProviderNone)

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Strategy:     getEnv("STRATEGY", StrategyLexical),
		TaxonomyFile: getEnv("TAXONOMY_FILE", ""),

		Embedding: EmbeddingConfig{
			Provider:          provider,
			APIKey:            embeddingAPIKey(provider),
			Model:             getEnv("EMBEDDING_MODEL", defaultEmbeddingModel(provider)),
			BaseURL:           getEnv("EMBEDDING_BASE_URL", ""),
			Dimensions:        getEnvAsInt("EMBEDDING_DIMENSIONS", 0),
			Timeout:           getEnvAsDuration("EMBEDDING_TIMEOUT", "15s"),
			RequestsPerMinute: getEnvAsInt("EMBEDDING_RPM", 60),
			MaxRetries:        getEnvAsInt("EMBEDDING_MAX_RETRIES", 2),
		},

		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			EmbeddingTTL: getEnvAsDuration("REDIS_EMBEDDING_TTL", "168h"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		TracingEnabled: getEnvAsBool("TRACING_ENABLED", false),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// OverrideStrategy replaces Strategy (CLI flag) and re-runs validation
func (c *Config) OverrideStrategy(strategy string) error {
	c.Strategy = strategy
	return c.validate()
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Strategy != StrategyLexical && c.Strategy != StrategySimilarity {
		return fmt.Errorf("STRATEGY must be one of: %s, %s", StrategyLexical, StrategySimilarity)
	}

	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be one of: %s, %s, %s", ProviderOpenAI, ProviderGemini, ProviderNone)
	}

	// similarity 전략은 임베딩 제공자가 필수
	if c.Strategy == StrategySimilarity {
		if c.Embedding.Provider == ProviderNone {
			return fmt.Errorf("STRATEGY=similarity requires EMBEDDING_PROVIDER")
		}
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("API key is required for embedding provider %s", c.Embedding.Provider)
		}
	}

	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("EMBEDDING_TIMEOUT must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func embeddingAPIKey(provider string) string {
	if key := os.Getenv("EMBEDDING_API_KEY"); key != "" {
		return key
	}
	switch provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderGemini:
		return os.Getenv("GOOGLE_API_KEY")
	}
	return ""
}

func defaultEmbeddingModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "text-embedding-3-large"
	case ProviderGemini:
		return "gemini-embedding-001"
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
