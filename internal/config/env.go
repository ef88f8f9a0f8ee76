package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Env holds secrets and endpoints read from the environment.
type Env struct {
	OpenAIKey      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}
	return nil
}

// GetEnv reads the process environment into an Env, validating key
// formats where a cheap check exists.
func GetEnv() (*Env, error) {
	env := &Env{
		OpenAIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		MinioEndpoint:  getEnvOrDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnvOrDefault("MINIO_BUCKET", "v2q-uploads"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}

	if env.OpenAIKey != "" {
		if !strings.HasPrefix(env.OpenAIKey, "sk-") {
			return nil, fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
		}
		if len(env.OpenAIKey) < 20 {
			return nil, fmt.Errorf("invalid OPENAI_API_KEY format: too short")
		}
	}
	return env, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
