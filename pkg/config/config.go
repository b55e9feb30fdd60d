package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const devTokenSecret = "dev-access-token-secret"

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDatabase           string
	AccessTokenSecret       string
	TokenTTL                time.Duration
	CORSOrigins             []string
	FeaturedSort            string
	PostgresUrl             string
	FirebaseCredentialsPath string
	RateLimitRPS            float64
	RateLimitBurst          int
	LogLevel                string
	LogFormat               string
	RevokedPurgeSpec        string
}

// Load reads the process environment, after merging in a .env file when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "5000"),
		Env:                     getEnv("NODE_ENV", "development"),
		MongoDatabase:           getEnv("MONGO_DB", "blogsDB"),
		AccessTokenSecret:       getEnv("ACCESS_TOKEN_SECRET", ""),
		TokenTTL:                getDuration("TOKEN_TTL", time.Hour),
		CORSOrigins:             splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		FeaturedSort:            getEnv("FEATURED_SORT", "createdAt"),
		PostgresUrl:             getEnv("POSTGRES_URL", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		RateLimitRPS:            getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:          getInt("RATE_LIMIT_BURST", 40),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "text"),
		RevokedPurgeSpec:        getEnv("REVOKED_PURGE_SPEC", "@every 15m"),
	}
	cfg.MongoURI = getEnv("MONGO_URI", atlasURI(
		os.Getenv("BLOG_USER"),
		os.Getenv("BLOG_PASSWORD"),
		getEnv("MONGO_HOST", "cluster0.7szto.mongodb.net"),
	))
	return cfg
}

// Validate reports configuration that would leave the server unusable or unsafe.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		logrus.Warn("Neither MONGO_URI nor BLOG_USER/BLOG_PASSWORD is set; store-backed routes will be unavailable.")
	}
	if c.AccessTokenSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("ACCESS_TOKEN_SECRET must be set in production")
		}
		logrus.Warn("ACCESS_TOKEN_SECRET not set, using the development secret.")
		c.AccessTokenSecret = devTokenSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.FeaturedSort {
	case "createdAt", "rating":
	default:
		return fmt.Errorf("FEATURED_SORT must be createdAt or rating, got %q", c.FeaturedSort)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func atlasURI(user, password, host string) string {
	if user == "" || password == "" {
		return ""
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(user), url.QueryEscape(password), host)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
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
