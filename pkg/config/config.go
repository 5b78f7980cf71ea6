package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/raf-aleaqarih/project-raf25/pkg/middleware"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Auth configuration
	Auth AuthConfig

	// RateLimit configuration
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig

	// Uploads configuration
	Uploads UploadsConfig

	// SMTP configuration
	SMTP SMTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// AuthConfig holds token verification settings
type AuthConfig struct {
	JWTSecret string
}

// RateLimitConfig holds admission control settings
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration

	// Redis makes limits global across instances; empty keeps them
	// process-local.
	RedisURL      string
	RedisPassword string
	RedisDB       int
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string
}

// UploadsConfig holds image upload settings
type UploadsConfig struct {
	// Backend is "filesystem" or "s3"
	Backend       string
	Dir           string
	PublicBaseURL string
	MaxBytes      int64

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// SMTPConfig holds outbound mail settings. An empty Host disables mail.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Auth:          loadAuthConfig(),
		RateLimit:     loadRateLimitConfig(),
		CORS:          loadCORSConfig(),
		Uploads:       loadUploadsConfig(),
		SMTP:          loadSMTPConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("RAF_HOST", "0.0.0.0"),
		Port:            getEnv("RAF_PORT", "8080"),
		ReadTimeout:     getEnvDuration("RAF_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("RAF_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("RAF_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("RAF_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("RAF_HEALTH_PORT", "9090"),
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if uri := getEnv("MONGODB_URI", ""); uri != "" {
		cfg.MongoURI = uri
	}
	if db := getEnv("MONGODB_DATABASE", ""); db != "" {
		cfg.Database = db
	}
	if timeout := getEnvDuration("MONGODB_CONNECT_TIMEOUT", 0); timeout > 0 {
		cfg.ConnectTimeout = timeout
	}

	return cfg
}

// loadAuthConfig loads token verification configuration from environment
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

// loadRateLimitConfig loads admission control configuration from environment
func loadRateLimitConfig() RateLimitConfig {
	defaults := middleware.DefaultRateLimitConfig()
	return RateLimitConfig{
		MaxRequests:   getEnvInt("RAF_RATE_LIMIT_MAX", defaults.MaxRequests),
		Window:        getEnvDuration("RAF_RATE_LIMIT_WINDOW", defaults.Window),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
}

// loadCORSConfig loads cross-origin configuration from environment
func loadCORSConfig() CORSConfig {
	origins := getEnv("RAF_CORS_ORIGINS", "*")
	parts := strings.Split(origins, ",")
	allowed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			allowed = append(allowed, p)
		}
	}
	return CORSConfig{AllowedOrigins: allowed}
}

// loadUploadsConfig loads image upload configuration from environment
func loadUploadsConfig() UploadsConfig {
	return UploadsConfig{
		Backend:       getEnv("RAF_UPLOAD_BACKEND", "filesystem"),
		Dir:           getEnv("RAF_UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getEnv("RAF_UPLOAD_BASE_URL", "/uploads"),
		MaxBytes:      getEnvInt64("RAF_UPLOAD_MAX_BYTES", 5*1024*1024),
		S3Endpoint:    getEnv("RAF_S3_ENDPOINT", ""),
		S3Region:      getEnv("RAF_S3_REGION", "us-east-1"),
		S3Bucket:      getEnv("RAF_S3_BUCKET", ""),
		S3AccessKey:   getEnv("RAF_S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("RAF_S3_SECRET_KEY", ""),
	}
}

// loadSMTPConfig loads outbound mail configuration from environment
func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:      getEnv("SMTP_HOST", ""),
		Port:      getEnvInt("SMTP_PORT", 587),
		Username:  getEnv("SMTP_USER", ""),
		Password:  getEnv("SMTP_PASS", ""),
		From:      getEnv("SMTP_FROM", ""),
		Recipient: getEnv("RECIPIENT_EMAIL", ""),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("RAF_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("RAF_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate limit max requests must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}

	switch c.Uploads.Backend {
	case "filesystem":
		if c.Uploads.Dir == "" {
			return fmt.Errorf("upload directory is required for filesystem uploads")
		}
	case "s3":
		if c.Uploads.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required for s3 uploads")
		}
	default:
		return fmt.Errorf("invalid upload backend: %s (must be filesystem or s3)", c.Uploads.Backend)
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	// SMTP is optional; if partially configured, catch it early.
	if c.SMTP.Host != "" && c.SMTP.Recipient == "" {
		return fmt.Errorf("RECIPIENT_EMAIL is required when SMTP is configured")
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
