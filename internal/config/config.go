package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Query    QueryConfig
	Session  SessionConfig
	SMTP     SMTPConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// EngineConfig points at the external workflow engine.
type EngineConfig struct {
	BaseURL        string
	TriggerTimeout int // seconds; bounds the external trigger call
}

// QueryConfig carries the merge policy constants. Defaults must stay
// at 0.7 / 3 for behavioral compatibility.
type QueryConfig struct {
	SecondaryDiscount float64
	FallbackThreshold int
}

// SessionConfig controls retention of terminal sessions in the
// in-memory table.
type SessionConfig struct {
	TerminalTTLMinutes   int
	SweepIntervalMinutes int
}

type SMTPConfig struct {
	Host          string
	Port          int
	Email         string
	Password      string
	SenderName    string
	OperatorEmail string // terminal-state notifications; empty disables mail
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	GeminiAPIKey      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Engine: EngineConfig{
			BaseURL:        getEnv("WORKFLOW_ENGINE_URL", "http://localhost:8085"),
			TriggerTimeout: getEnvAsInt("WORKFLOW_TRIGGER_TIMEOUT_SECONDS", 30),
		},
		Query: QueryConfig{
			SecondaryDiscount: getEnvAsFloat("QUERY_SECONDARY_DISCOUNT", 0.7),
			FallbackThreshold: getEnvAsInt("QUERY_FALLBACK_THRESHOLD", 3),
		},
		Session: SessionConfig{
			TerminalTTLMinutes:   getEnvAsInt("SESSION_TERMINAL_TTL_MINUTES", 60),
			SweepIntervalMinutes: getEnvAsInt("SESSION_SWEEP_INTERVAL_MINUTES", 10),
		},
		SMTP: SMTPConfig{
			Host:          getEnv("SMTP_HOST", ""),
			Port:          getEnvAsInt("SMTP_PORT", 587),
			Email:         getEnv("SMTP_EMAIL", ""),
			Password:      getEnv("SMTP_PASSWORD", ""),
			SenderName:    getEnv("SMTP_SENDER_NAME", "VC Intel"),
			OperatorEmail: getEnv("OPERATOR_NOTIFY_EMAIL", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiAPIKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
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
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
