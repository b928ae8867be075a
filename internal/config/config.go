package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	ServerPort  string
	AppName     string
	FrontendURL string

	Database DatabaseConfig

	RedisURL string

	JWTSecret               string
	JWTExpiry               time.Duration
	EmailConfirmationExpiry time.Duration
	PasswordResetExpiry     time.Duration

	Storage StorageConfig
	SMTP    SMTPConfig

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	RateLimitBlockTime   time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string

	// ConnectionLimit caps open connections; callers beyond it wait for a free one.
	ConnectionLimit int
	// QueueLimit bounds how many callers may wait. Zero means unbounded.
	QueueLimit        int
	MaxIdleConns      int
	ConnMaxLifetime   time.Duration
	ConnectTimeout    time.Duration
	KeepAliveInterval time.Duration
}

type StorageConfig struct {
	UploadDir    string
	PublicPrefix string
	SignedURLTTL time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (Docker containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", ":3000"),
		AppName:     getEnv("APP_NAME", "Planogram Backoffice"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "127.0.0.1"),
			Port:              getEnvAsInt("DB_PORT", 3306),
			Username:          os.Getenv("DB_USERNAME"),
			Password:          os.Getenv("DB_PASSWORD"),
			Database:          os.Getenv("DB_DATABASE"),
			ConnectionLimit:   getEnvAsInt("DB_CONNECTION_LIMIT", 10),
			QueueLimit:        getEnvAsInt("DB_QUEUE_LIMIT", 0),
			MaxIdleConns:      getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:   getEnvAsDuration("DB_CONN_MAX_LIFETIME", "30m"),
			ConnectTimeout:    getEnvAsDuration("DB_CONNECT_TIMEOUT", "10s"),
			KeepAliveInterval: getEnvAsDuration("DB_KEEPALIVE_INTERVAL", "30s"),
		},

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:               os.Getenv("JWT_SECRET"),
		JWTExpiry:               getEnvAsDuration("JWT_EXPIRY", "24h"),
		EmailConfirmationExpiry: getEnvAsDuration("EMAIL_CONFIRMATION_EXPIRY", "24h"),
		PasswordResetExpiry:     getEnvAsDuration("PASSWORD_RESET_EXPIRY", "24h"),

		Storage: StorageConfig{
			UploadDir:    getEnv("STORAGE_UPLOAD_DIR", "public"),
			PublicPrefix: getEnv("STORAGE_PUBLIC_PREFIX", "/public"),
			SignedURLTTL: getEnvAsDuration("SIGNED_URL_TTL", "1h"),
		},

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
		},

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		RateLimitBlockTime:   getEnvAsDuration("RATE_LIMIT_BLOCK_TIME", "5m"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

// IsProduction reports whether the process runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}
