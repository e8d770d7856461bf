// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Airport gazetteer (optional Postgres table; built-in table when empty)
	GazetteerDSN string

	// Google (Gmail + Calendar)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	CalendarID         string
	HotelFolder        string
	FlightFolder       string

	// Sync windows
	SyncInterval  time.Duration
	LookbackDays  int
	LookaheadDays int
	TaxYear       int

	// Conflict notifications
	ConflictWebhookURL   string
	ConflictWebhookToken string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "residency"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		GazetteerDSN: getEnv("GAZETTEER_DSN", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		CalendarID:         getEnv("CALENDAR_ID", "primary"),
		HotelFolder:        getEnv("HOTEL_FOLDER", "travel-hotels"),
		FlightFolder:       getEnv("FLIGHT_FOLDER", "travel-flights"),

		SyncInterval:  time.Duration(getEnvAsInt("SYNC_INTERVAL", 900)) * time.Second,
		LookbackDays:  getEnvAsInt("LOOKBACK_DAYS", 14),
		LookaheadDays: getEnvAsInt("LOOKAHEAD_DAYS", 60),
		TaxYear:       getEnvAsInt("TAX_YEAR", time.Now().Year()),

		ConflictWebhookURL:   getEnv("CONFLICT_WEBHOOK_URL", ""),
		ConflictWebhookToken: getEnv("CONFLICT_WEBHOOK_TOKEN", ""),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
