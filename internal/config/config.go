package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

// Config keeps runtime settings for the API server.
type Config struct {
	Port int
	Env  string // development | production
	DB   DBConfig

	// Rate limiter settings for the public HTTP surface.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// DBConfig holds the pieces of the PostgreSQL connection.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN renders the GORM/pgx connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	cfg := Config{
		Port: envInt("PORT", 8080),
		Env:  envString("APP_ENV", "development"),
		DB: DBConfig{
			Host:     envString("DB_HOST", "localhost"),
			Port:     envString("DB_PORT", "5432"),
			User:     envString("DB_USERNAME", "postgres"),
			Password: envString("DB_PASSWORD", "postgres"),
			Name:     envString("DB_DATABASE", "todo_report"),
		},
		RateLimitPerSecond: envFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 20),
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
