// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	Server     ServerConfig
	Logging    LoggingConfig
	CORS       CORSConfig
	JWT        JWTConfig
	LLM        LLMConfig
	Playground PlaygroundConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
	// CookieSecure marks the guest cookie as HTTPS only
	CookieSecure bool
	// MaxRequestSize is the largest accepted request body in bytes
	MaxRequestSize int64
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds the secret shared with the authentication service
type JWTConfig struct {
	Secret string
}

// LLMConfig holds text generation settings
type LLMConfig struct {
	// Provider is "openai", "anthropic" or "mock"
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	MaxAttempts int
	// CacheTTL bounds how long generated text is reused; zero keeps it forever
	CacheTTL time.Duration
}

// PlaygroundConfig holds settings of the playground itself
type PlaygroundConfig struct {
	CoursesFile string
	// GuestProgressTTL is how long an idle guest's progress is kept
	GuestProgressTTL time.Duration
	// WriteTimeout bounds a submission's persistence, which outlives the request
	WriteTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	if cfg.Server.Port, err = intEnv("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Server.CookieSecure, err = boolEnv("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	maxRequestSize, err := intEnv("MAX_REQUEST_SIZE", 1024*1024) // 1MB
	if err != nil {
		return nil, err
	}
	cfg.Server.MaxRequestSize = int64(maxRequestSize)

	// Logging configuration
	cfg.Logging.Level = stringEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	// Redis configuration
	cfg.Redis.Host = stringEnv("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = intEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// Text generation configuration
	cfg.LLM.Provider = stringEnv("LLM_PROVIDER", "mock")
	cfg.LLM.Model = os.Getenv("LLM_MODEL")
	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	cfg.LLM.BaseURL = os.Getenv("LLM_BASE_URL")
	if cfg.LLM.Provider != "mock" && cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required for provider %q", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens, err = intEnv("LLM_MAX_TOKENS", 1024); err != nil {
		return nil, err
	}
	if cfg.LLM.MaxAttempts, err = intEnv("LLM_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.LLM.CacheTTL, err = durationEnv("GENERATION_CACHE_TTL", 0); err != nil {
		return nil, err
	}

	// Playground configuration
	cfg.Playground.CoursesFile = stringEnv("COURSES_FILE", "configs/courses.yaml")
	if cfg.Playground.GuestProgressTTL, err = durationEnv("GUEST_PROGRESS_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Playground.WriteTimeout, err = durationEnv("WRITE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the Redis address in host:port form
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// parseOrigins parses comma-separated origins, allowing all when none are given
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}
	return origins
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
