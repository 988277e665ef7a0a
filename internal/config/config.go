package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Classification
	GeminiAPIKey      string
	GeminiModel       string
	ClassifyBatchSize int

	// Ingestion
	PipelineAPIKey string

	// Analytics defaults
	RecurringMinOccurrences int
	AnomalyThreshold        float64
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Classification
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ClassifyBatchSize: getEnvInt("CLASSIFY_BATCH_SIZE", 50),

		// Ingestion
		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		// Analytics defaults
		RecurringMinOccurrences: getEnvInt("RECURRING_MIN_OCCURRENCES", 3),
	}

	threshold := getEnv("ANOMALY_THRESHOLD", "2")
	parsed, err := strconv.ParseFloat(threshold, 64)
	if err != nil || parsed <= 0 {
		log.Printf("Warning: invalid ANOMALY_THRESHOLD value '%s', falling back to 2\n", threshold)
		parsed = 2
	}
	config.AnomalyThreshold = parsed

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
