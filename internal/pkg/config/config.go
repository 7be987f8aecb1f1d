package config

import (
	"fmt"
	"os"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// DirectoryConfig points at the trip directory service.
type DirectoryConfig struct {
	BaseURL string
}

// PushConfig points at the realtime push channel. An empty URL disables it.
type PushConfig struct {
	URL string
}

// GenAIConfig holds the itinerary generator credentials.
type GenAIConfig struct {
	APIKey string
	Model  string
}

type Config struct {
	Repositories RepositoriesConfig
	Directory    DirectoryConfig
	Push         PushConfig
	GenAI        GenAIConfig
	ServerPort   string
	MetricsPort  string
	PprofPort    string
	JWTSecret    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "tripplan"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Directory: DirectoryConfig{
			BaseURL: getEnvOrDefault("TRIP_DIRECTORY_URL", "http://localhost:8085"),
		},
		Push: PushConfig{
			URL: os.Getenv("PUSH_CHANNEL_URL"),
		},
		GenAI: GenAIConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8091"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9091"),
		PprofPort:   getEnvOrDefault("PPROF_PORT", "6060"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
