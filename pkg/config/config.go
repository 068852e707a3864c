package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject     string
	FirebaseApiKey      string
	FirebaseDatabaseURL string

	// Service account credentials; JSON wins over the file path when both are set.
	ServiceAccountJSON string
	ServiceAccountPath string

	StorageBucket string
	MaxUploadSize int64

	// Empty means any origin.
	AllowedOrigins []string

	RequestTimeout        time.Duration
	ChatMessagesPerMinute int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:     getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:      getEnv("FIREBASE_API_KEY", ""),
		FirebaseDatabaseURL: getEnv("FIREBASE_DATABASE_URL", ""),

		ServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", "./serviceAccount.json"),

		StorageBucket: getEnv("STORAGE_BUCKET", ""),
		MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB

		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		RequestTimeout:        getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		ChatMessagesPerMinute: int(getEnvAsInt64("CHAT_MESSAGES_PER_MINUTE", 30)),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
