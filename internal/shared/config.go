// ============================================================================
// internal/shared/config.go
// Configuration management and environment variable helpers
// ============================================================================

package shared

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================================
// Configuration Structs
// ============================================================================

// Config holds the full application configuration
type Config struct {
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error

	Server   ServerConfig
	MongoDB  MongoConfig
	Security SecurityConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	JWTSecret          string
	JWTExpirationHours int
	BCryptCost         int // BCrypt hashing cost (10-12 recommended)
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

// ============================================================================
// Configuration Loading Functions
// ============================================================================

// LoadEnv loads environment variables from a .env file
func LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("Warning: %s file not found, using system environment variables", envFile)
		return err
	}

	log.Printf("Successfully loaded environment from %s", envFile)
	return nil
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: GetEnv("ENVIRONMENT", "development"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
	}

	config.Server = ServerConfig{
		Port:            GetEnv("HTTP_PORT", "8080"),
		ReadTimeout:     GetDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    GetDurationEnv("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     GetDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		RequestTimeout:  GetDurationEnv("HTTP_REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: GetDurationEnv("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	// Load MongoDB configuration
	mongoURI := GetEnv("MONGO_URI", "")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}

	config.MongoDB = MongoConfig{
		URI:            mongoURI,
		Database:       GetEnv("MONGO_DB_NAME", "studyhub"),
		ConnectTimeout: GetDurationEnv("MONGO_CONNECT_TIMEOUT", 20*time.Second),
		MaxPoolSize:    uint64(GetIntEnv("MONGO_MAX_POOL_SIZE", 50)),
		MinPoolSize:    uint64(GetIntEnv("MONGO_MIN_POOL_SIZE", 10)),
		MaxIdleTime:    GetDurationEnv("MONGO_MAX_IDLE_TIME", 30*time.Second),
	}

	// Load security configuration
	config.Security = SecurityConfig{
		JWTSecret:          GetEnv("JWT_SECRET", ""),
		JWTExpirationHours: GetIntEnv("JWT_EXPIRATION_HOURS", 24),
		BCryptCost:         GetIntEnv("BCRYPT_COST", 10),
	}

	if config.Security.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	// Load CORS configuration
	config.CORS = CORSConfig{
		AllowedOrigins:   GetStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods:   GetStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
		AllowedHeaders:   GetStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
		AllowCredentials: GetBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		MaxAge:           GetIntEnv("CORS_MAX_AGE", 300),
	}

	return config, nil
}

// ============================================================================
// Environment Variable Helper Functions
// ============================================================================

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv retrieves an integer environment variable or returns a default value
func GetIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetBoolEnv retrieves a boolean environment variable or returns a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetDurationEnv retrieves a duration environment variable or returns a default value
// Supports format like "30s", "5m", "1h"
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s: %s, using default: %v", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetStringSliceEnv retrieves a comma-separated string list or returns a default value
func GetStringSliceEnv(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, item := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}
	return result
}
