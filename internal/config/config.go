package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	DatabaseURL      string
	Env              string
	WatsonxAPIKey    string
	WatsonxProjectID string
	WatsonxURL       string
	IAMTokenURL      string
	EmbeddingModel   string
	TextGenModel     string
	RetrievalLimit   int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of a local env file for dev convenience.
	_ = godotenv.Load(".env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:      dbURL,
		Env:              env,
		WatsonxAPIKey:    os.Getenv("WATSONX_API_KEY"),
		WatsonxProjectID: os.Getenv("WATSONX_PROJECT_ID"),
		WatsonxURL:       getEnv("WATSONX_URL", "https://us-south.ml.cloud.ibm.com"),
		IAMTokenURL:      getEnv("IAM_TOKEN_URL", "https://iam.cloud.ibm.com/identity/token"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "intfloat/multilingual-e5-large"),
		TextGenModel:     getEnv("TEXTGEN_MODEL", "ibm/granite-3-2-8b-instruct"),
		RetrievalLimit:   getEnvInt("RETRIEVAL_LIMIT", 10),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int: %q", key, raw)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
