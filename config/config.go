package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultTokenTTL       = 30 * time.Minute
	DefaultLLMAPIURL      = "https://api.groq.com/openai/v1/chat/completions"
	DefaultLLMModel       = "llama-3.1-8b-instant"
	DefaultLLMTimeout     = 60 * time.Second
	DefaultMaxUploadBytes = 10 << 20
	DefaultMaxMegapixels  = 40

	// devJWTSecret is only accepted outside production.
	devJWTSecret = "a_very_secret_key_that_should_be_in_env"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration, empty URL disables rate limiting
	RedisURL         string
	AnalyzeRateLimit int

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Language model configuration
	LLMAPIKey  string
	LLMAPIURL  string
	LLMModel   string
	LLMTimeout time.Duration

	// OCR and label storage
	OCREngine   string
	AWSRegion   string
	LabelBucket string

	// Upload handling
	MaxUploadBytes    int64
	MaxImageDimension int
	MaxImagePixels    int

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

// LoadConfig builds a Config from the environment, Docker secrets and an optional .env file.
func LoadConfig() (*Config, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	cfg := &Config{
		Environment: GetEnvironment(),
		ServerHost:  lookup("SERVER_HOST", ""),
		ServerPort:  lookup("SERVER_PORT", "8000"),

		DBDriver:   strings.ToLower(lookup("DB_DRIVER", "postgres")),
		DBHost:     lookup("DB_HOST", "localhost"),
		DBPort:     lookup("DB_PORT", "5432"),
		DBUser:     lookup("DB_USER", "postgres"),
		DBPassword: lookup("DB_PASSWORD", ""),
		DBName:     lookup("DB_NAME", "nutrilens"),
		DBSSLMode:  lookup("DB_SSL_MODE", "disable"),
		DBPath:     lookup("DB_PATH", "nutrilens.db"),

		RedisURL: lookup("REDIS_URL", ""),

		JWTSecret: lookup("JWT_SECRET", lookup("SECRET_KEY", "")),

		LLMAPIKey: lookup("GROQ_API_KEY", ""),
		LLMAPIURL: lookup("GROQ_API_URL", DefaultLLMAPIURL),
		LLMModel:  lookup("GROQ_MODEL_NAME", DefaultLLMModel),

		OCREngine:   strings.ToLower(lookup("OCR_ENGINE", "rekognition")),
		AWSRegion:   lookup("AWS_REGION", ""),
		LabelBucket: lookup("LABEL_BUCKET", ""),

		CORSAllowedOrigins: splitList(lookup("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		LogLevel:  lookup("LOG_LEVEL", "info"),
		LogFormat: lookup("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.AnalyzeRateLimit, err = lookupInt("ANALYZE_RATE_LIMIT", 0); err != nil {
		return nil, err
	}
	minutes, err := lookupInt("ACCESS_TOKEN_EXPIRE_MINUTES", int(DefaultTokenTTL/time.Minute))
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = time.Duration(minutes) * time.Minute

	seconds, err := lookupInt("LLM_TIMEOUT_SECONDS", int(DefaultLLMTimeout/time.Second))
	if err != nil {
		return nil, err
	}
	cfg.LLMTimeout = time.Duration(seconds) * time.Second

	uploadMB, err := lookupInt("MAX_UPLOAD_MB", DefaultMaxUploadBytes>>20)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(uploadMB) << 20

	if cfg.MaxImageDimension, err = lookupInt("MAX_IMAGE_DIMENSION", 2400); err != nil {
		return nil, err
	}
	megapixels, err := lookupInt("MAX_IMAGE_MEGAPIXELS", DefaultMaxMegapixels)
	if err != nil {
		return nil, err
	}
	cfg.MaxImagePixels = megapixels * 1_000_000

	if cfg.JWTSecret == "" && cfg.Environment != Production {
		cfg.JWTSecret = devJWTSecret
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// UsingDevSecret reports whether the built-in development signing key is in use.
func (c *Config) UsingDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// DatabaseDSN returns the connection string for the configured driver.
func (c *Config) DatabaseDSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// lookup resolves a key from the environment, then a Docker secret, then the fallback.
func lookup(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if value := readSecret(strings.ToLower(key)); value != "" {
		return value
	}
	return fallback
}

func lookupInt(key string, fallback int) (int, error) {
	raw := lookup(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return n, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
