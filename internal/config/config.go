package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	JWTSecret      string
	JWTExpiry      time.Duration
	AuthCookieName string
	AllowedOrigins []string // CORS allowed origins
	RedisAddr      string   // empty disables the user cache
	RedisPassword  string
	UserCacheTTL   time.Duration
	QuestionsFile  string
	LoginRate      float64 // requests/second per IP on login and register
	LoginBurst     int
	TrustedProxy   bool // honor X-Forwarded-For / X-Real-IP from the fronting proxy
}

// DefaultJWTSecret is the development fallback for JWT_SECRET.
const DefaultJWTSecret = "dev-secret-change-me"

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users     string
	Responses string
}

// IsProduction reports whether the app runs with production hardening (secure cookies, HSTS).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "5000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:     getEnv("DYNAMO_TABLE_USERS", "users"),
			Responses: getEnv("DYNAMO_TABLE_RESPONSES", "responses"),
		},
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiry:      time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		AuthCookieName: getEnv("AUTH_COOKIE_NAME", "authToken"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173"), ","),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		UserCacheTTL:   time.Duration(getEnvInt("USER_CACHE_TTL_MINUTES", 10)) * time.Minute,
		QuestionsFile:  getEnv("QUESTIONS_FILE", ""),
		LoginRate:      float64(getEnvInt("LOGIN_RATE_PER_SECOND", 5)),
		LoginBurst:     getEnvInt("LOGIN_RATE_BURST", 10),
		TrustedProxy:   getEnvBool("TRUSTED_PROXY", false),
	}
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
