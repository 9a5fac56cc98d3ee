package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string
	BackendBaseURL string
	Environment    string

	ListingPageSize int
	MessagePageSize int

	SessionTTL    time.Duration
	CookieSecure  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "3000"),
		BackendBaseURL:  getEnv("BACKEND_BASE_URL", "http://localhost:8080/api"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ListingPageSize: getEnvAsInt("LISTING_PAGE_SIZE", 12),
		MessagePageSize: getEnvAsInt("MESSAGE_PAGE_SIZE", 20),
		SessionTTL:      time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 12*60)) * time.Minute,
		CookieSecure:    getEnv("COOKIE_SECURE", "false") == "true",
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
