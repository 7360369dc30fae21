package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	OpenRouter OpenRouterConfig
	Gemini     GeminiConfig
	LLM        LLMConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type LLMConfig struct {
	Provider       string // "openrouter" or "gemini"
	MaxAttempts    int
	RequestTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			BaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:   getEnv("OPENROUTER_MODEL", "google/gemini-2.0-flash-exp:free"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		LLM: LLMConfig{
			Provider:       getEnv("LLM_PROVIDER", "openrouter"),
			MaxAttempts:    getEnvAsInt("LLM_MAX_ATTEMPTS", 3),
			RequestTimeout: getEnvAsDuration("LLM_REQUEST_TIMEOUT", "120s"),
		},
	}
}

// ModelName returns the model the active provider is configured to call,
// used in the health payload.
func (c *Config) ModelName() string {
	if c.LLM.Provider == "gemini" {
		return c.Gemini.Model
	}
	return c.OpenRouter.Model
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
