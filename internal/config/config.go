package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"clinical-eval-be/pkg/store"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Sessions SessionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EvaluationTopic    string // in-process bus topic for completed evaluations
}

type DatabaseConfig struct {
	Connection string // empty disables the audit trail
}

type AIConfig struct {
	LLMProvider    string // "ollama" or "huggingface"
	LLMModel       string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL  string
	HuggingFaceKey string
	MaxConcurrent  int // max in-flight evaluator calls per request
	CacheTTL       time.Duration
}

type SessionConfig struct {
	Backend  string // "memory" or "redis"
	Policies map[store.Class]store.ClassPolicy
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EvaluationTopic:    getEnv("EVALUATION_COMPLETED_TOPIC_NAME", "EVALUATION_COMPLETED"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:       getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceKey: getEnv("HUGGINGFACE_API_KEY", ""),
			MaxConcurrent:  getEnvAsInt("EVALUATOR_MAX_CONCURRENT", 1),
			CacheTTL:       getEnvAsDuration("EVALUATOR_CACHE_TTL", 5*time.Minute),
		},
		Sessions: SessionConfig{
			Backend:  getEnv("SESSION_STORE", "memory"),
			Policies: loadPolicies(),
		},
	}
}

// loadPolicies starts from the product defaults and applies per-class env
// overrides (SESSION_TTL_SCREENING=2h, SESSION_MAX_RECORD_DIAGNOSTIC=500000, ...).
func loadPolicies() map[store.Class]store.ClassPolicy {
	policies := store.DefaultPolicies()
	for class, suffix := range map[store.Class]string{
		store.ClassScreening:  "SCREENING",
		store.ClassRecordChat: "RECORD_CHAT",
		store.ClassDiagnostic: "DIAGNOSTIC",
	} {
		p := policies[class]
		p.TTL = getEnvAsDuration("SESSION_TTL_"+suffix, p.TTL)
		p.MaxRecordSize = getEnvAsInt("SESSION_MAX_RECORD_"+suffix, p.MaxRecordSize)
		policies[class] = p
	}
	return policies
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
