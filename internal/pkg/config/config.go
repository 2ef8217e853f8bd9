package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
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

// GatewayConfig points at the upstream completion endpoint (OpenAI wire
// format, streamed or not depending on the request).
type GatewayConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	// Timeout bounds a whole completion request including the streamed body.
	Timeout time.Duration
}

// WeatherConfig holds the fixed city coordinates for the forecast lookup.
type WeatherConfig struct {
	// BaseURL overrides the Open-Meteo endpoint; empty means the public API.
	BaseURL   string
	Latitude  float64
	Longitude float64
	Timezone  string
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
}

type Config struct {
	Repositories RepositoriesConfig
	Gateway      GatewayConfig
	Weather      WeatherConfig
	Auth         AuthConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "pune_companion"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Gateway: GatewayConfig{
			Endpoint: getEnvOrDefault("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1/chat/completions"),
			APIKey:   os.Getenv("AI_GATEWAY_KEY"),
			Model:    getEnvOrDefault("AI_GATEWAY_MODEL", "google/gemini-2.5-flash"),
			Timeout:  getDurationOrDefault("AI_GATEWAY_TIMEOUT", 120*time.Second),
		},
		Weather: WeatherConfig{
			// Pune
			BaseURL:   os.Getenv("WEATHER_BASE_URL"),
			Latitude:  getFloatOrDefault("WEATHER_LAT", 18.5204),
			Longitude: getFloatOrDefault("WEATHER_LON", 73.8567),
			Timezone:  getEnvOrDefault("WEATHER_TZ", "Asia/Kolkata"),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET_KEY"),
			TokenExpiration: getDurationOrDefault("JWT_TOKEN_EXPIRATION", 24*time.Hour),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
