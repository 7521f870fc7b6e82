package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Reasoning ReasoningConfig
	Screening ScreeningConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	Enabled    bool
	URL        string
	APIKey     string
	Collection string
	// SearchLimit is the number of job description chunks retrieved per query.
	SearchLimit int
}

// GeminiConfig holds the Gemini credentials. Gemini also provides the
// embeddings used for job description retrieval, whatever the reasoning provider.
type GeminiConfig struct {
	APIKey     string
	EmbedModel string
}

type ReasoningConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type ScreeningConfig struct {
	MaxReflectionAttempts int
	ConfidenceThreshold   float64
	Summarize             bool
	StrictPolicy          bool
	MaxLogLength          int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	// A missing .env file is not an error; the environment may carry everything.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hiring_agent"),
		},
		Qdrant: QdrantConfig{
			Enabled:     getEnvAsBool("QDRANT_ENABLED", true),
			URL:         getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:      getEnv("QDRANT_API_KEY", ""),
			Collection:  getEnv("QDRANT_COLLECTION", "hiring_agent_job_descriptions"),
			SearchLimit: getEnvAsInt("QDRANT_SEARCH_LIMIT", 3),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Reasoning: ReasoningConfig{
			Provider:    strings.ToLower(getEnv("REASONING_PROVIDER", "gemini")),
			Model:       getEnv("REASONING_MODEL", ""),
			APIKey:      getEnv("REASONING_API_KEY", ""),
			BaseURL:     getEnv("REASONING_BASE_URL", ""),
			Temperature: getEnvAsFloat("REASONING_TEMPERATURE", 0),
			MaxTokens:   getEnvAsInt("REASONING_MAX_TOKENS", 1024),
			Timeout:     getEnvAsDuration("REASONING_TIMEOUT", "60s"),
		},
		Screening: ScreeningConfig{
			MaxReflectionAttempts: getEnvAsInt("SCREENING_MAX_REFLECTIONS", 3),
			ConfidenceThreshold:   getEnvAsFloat("SCREENING_CONFIDENCE_THRESHOLD", 60),
			Summarize:             getEnvAsBool("SCREENING_SUMMARIZE", true),
			StrictPolicy:          getEnvAsBool("SCREENING_STRICT_POLICY", true),
			MaxLogLength:          getEnvAsInt("SCREENING_MAX_LOG_LENGTH", 200),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:    getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// ReasoningAPIKey returns REASONING_API_KEY, or the provider specific key when unset.
func (c *Config) ReasoningAPIKey() string {
	if c.Reasoning.APIKey != "" {
		return c.Reasoning.APIKey
	}

	switch c.Reasoning.Provider {
	case "gemini":
		return c.Gemini.APIKey
	case "openai":
		return getEnv("OPENAI_API_KEY", "")
	case "groq":
		return getEnv("GROQ_API_KEY", "")
	case "anthropic":
		return getEnv("ANTHROPIC_API_KEY", "")
	default:
		return ""
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
