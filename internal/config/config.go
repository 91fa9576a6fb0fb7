package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Embedding EmbeddingConfig
	Search    SearchConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	TokenExpiry        time.Duration
	EmbedTopicName     string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type EmbeddingConfig struct {
	Provider      string // "openai" or "ollama"
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	Dimensions    int
	OllamaBaseURL string
	OllamaModel   string
}

// SearchConfig overrides the hybrid search fusion profile. Defaults match
// pkg/search.DefaultConfig.
type SearchConfig struct {
	KeywordWeight              float64
	SemanticWeight             float64
	HighPrecisionThreshold     float64
	HighRecallThreshold        float64
	MinResultsForHighPrecision int
	MaxSemanticResults         int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", "default_secret"),
			TokenExpiry:        getEnvAsDuration("TOKEN_EXPIRY", 24*time.Hour),
			EmbedTopicName:     getEnv("EMBED_NOTE_TOPIC_NAME", "EMBED_NOTE"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "NoteSearch"),
		},
		Embedding: EmbeddingConfig{
			Provider:      getEnv("EMBEDDING_PROVIDER", "openai"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIModel:   getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimensions:    getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Search: SearchConfig{
			KeywordWeight:              getEnvAsFloat("SEARCH_KEYWORD_WEIGHT", 0.3),
			SemanticWeight:             getEnvAsFloat("SEARCH_SEMANTIC_WEIGHT", 0.7),
			HighPrecisionThreshold:     getEnvAsFloat("SEARCH_HIGH_PRECISION_THRESHOLD", 0.60),
			HighRecallThreshold:        getEnvAsFloat("SEARCH_HIGH_RECALL_THRESHOLD", 0.35),
			MinResultsForHighPrecision: getEnvAsInt("SEARCH_MIN_RESULTS_HIGH_PRECISION", 3),
			MaxSemanticResults:         getEnvAsInt("SEARCH_MAX_SEMANTIC_RESULTS", 20),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
