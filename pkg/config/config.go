package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// Config holds the application configuration
type Config struct {
	Environment            string
	LogLevel               string
	Port                   string
	ModelDir               string
	DatasetPath            string
	DatabasePath           string
	ExportDir              string
	ExportWorkers          int
	DatasetRefreshSchedule string
	DefaultEndYear         int
	CORSAllowedOrigins     []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Environment:            getEnv("ENVIRONMENT", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		Port:                   getEnv("PORT", "8080"),
		ModelDir:               getEnv("MODEL_DIR", "predictor_model"),
		DatasetPath:            getEnv("DATASET_PATH", "mass_mobilization_cleaned.csv"),
		DatabasePath:           getEnv("DATABASE_PATH", "data/protest.db"),
		ExportDir:              getEnv("EXPORT_DIR", "data/exports"),
		ExportWorkers:          getEnvAsInt("EXPORT_WORKERS", 2),
		DatasetRefreshSchedule: getEnv("DATASET_REFRESH_SCHEDULE", ""),
		DefaultEndYear:         getEnvAsInt("DEFAULT_END_YEAR", 2020),
		CORSAllowedOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the service cannot start with
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.ExportWorkers <= 0 {
		return fmt.Errorf("EXPORT_WORKERS must be positive, got %d", c.ExportWorkers)
	}
	if c.ModelDir == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if c.DatasetPath == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}
	if c.DatasetRefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.DatasetRefreshSchedule); err != nil {
			return fmt.Errorf("invalid DATASET_REFRESH_SCHEDULE: %w", err)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
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

// getEnvAsList splits a comma-separated environment variable
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
