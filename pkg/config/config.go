package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-only-insecure-jwt-secret"

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresURL             string
	MongoURI                string
	MongoDatabase           string
	RedisURL                string
	MetricsPort             string

	JWTSecret      string
	JWTTTL         time.Duration
	CookieSecure   bool
	AllowedOrigins []string

	FeedAncestorDepth int
	FeedMaxLimit      int
	UploadMaxBytes    int64

	RateLimitAPI    int
	RateLimitAuth   int
	RateLimitWindow time.Duration
}

// Load reads configuration from the environment, after applying an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	env := getEnv("ENV", "development")
	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     env,
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresURL:             getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "buddyscript"),
		RedisURL:                getEnv("REDIS_URL", ""),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTL:         getEnvDuration("JWT_TTL", 7*24*time.Hour),
		CookieSecure:   getEnvBool("COOKIE_SECURE", env == "production"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		FeedAncestorDepth: getEnvInt("FEED_ANCESTOR_DEPTH", 10),
		FeedMaxLimit:      getEnvInt("FEED_MAX_LIMIT", 50),
		UploadMaxBytes:    int64(getEnvInt("UPLOAD_MAX_BYTES", 5<<20)),

		RateLimitAPI:    getEnvInt("RATE_LIMIT_API", 100),
		RateLimitAuth:   getEnvInt("RATE_LIMIT_AUTH", 20),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
	}

	if cfg.PostgresURL == "" {
		return nil, errors.New("POSTGRES_CONN_STR environment variable not set")
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET environment variable not set")
		}
		log.Println("JWT_SECRET not set, using development secret.")
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
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
