// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion string
	S3Bucket  string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// SES
	SESSenderEmail string

	// Matching engine
	MinCompatibility float64
	MinListingScore  float64
	MatchLimit       int

	// Application
	Stage    string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:  getEnv("S3_BUCKET", "bedathon-listings-dev"),

		// Database
		DBHost:     getEnv("DB_HOST", getEnv("BEDATHON_DB_HOST", "localhost")),
		DBPort:     getEnvInt("DB_PORT", getEnvInt("BEDATHON_DB_PORT", 5432)),
		DBName:     getEnv("DB_NAME", getEnv("BEDATHON_DB_NAME", "bedathon")),
		DBUser:     getEnv("DB_USER", getEnv("BEDATHON_DB_USER", "postgres")),
		DBPassword: getEnv("DB_PASSWORD", getEnv("BEDATHON_DB_PASSWORD", "")),

		// SES
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),

		// Matching engine
		MinCompatibility: getEnvFloat("MIN_COMPATIBILITY", 0.5),
		MinListingScore:  getEnvFloat("MIN_LISTING_SCORE", 0.0),
		MatchLimit:       getEnvInt("MATCH_LIMIT", 0),

		// Application
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // Disable SSL for local development
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as float64 or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
