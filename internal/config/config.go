package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	LogLevel     string

	// JWTSecret signs bearer tokens. There is deliberately no fallback value:
	// startup fails if it is not supplied.
	JWTSecret string

	// Bootstrap credentials used by the one-time admin setup endpoint.
	AdminUsername string
	AdminPassword string

	// Cloudinary account for the image relay.
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	// Audit event retention. EventRetentionCron is a standard 5-field cron
	// expression; events older than EventRetentionDays are pruned on each run.
	EventRetentionCron string
	EventRetentionDays int
}

// Load loads configuration from environment variables or sets defaults.
// Secrets have no defaults and are required.
func Load() (*Config, error) {
	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	retentionStr := getEnv("EVENT_RETENTION_DAYS", "30")
	retentionDays, err := strconv.Atoi(retentionStr)
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_RETENTION_DAYS %q: %w", retentionStr, err)
	}

	cfg := &Config{
		ServerPort:          port,
		DatabasePath:        getEnv("DATABASE_PATH", "./catalog.db"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AdminUsername:       os.Getenv("ADMIN_USERNAME"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "sai-infotech-products"),
		EventRetentionCron:  getEnv("EVENT_RETENTION_CRON", "0 3 * * *"),
		EventRetentionDays:  retentionDays,
	}

	required := map[string]string{
		"JWT_SECRET":            cfg.JWTSecret,
		"ADMIN_USERNAME":        cfg.AdminUsername,
		"ADMIN_PASSWORD":        cfg.AdminPassword,
		"CLOUDINARY_CLOUD_NAME": cfg.CloudinaryCloudName,
		"CLOUDINARY_API_KEY":    cfg.CloudinaryAPIKey,
		"CLOUDINARY_API_SECRET": cfg.CloudinaryAPISecret,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("%s must be set", name)
		}
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
