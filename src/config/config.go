package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all configuration shared by the binaries.
type Config struct {
	Environment string
	LogLevel    string
	Port        string

	CowinURL   string
	CowinToken string
	PostalURL  string

	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string

	RedisAddr     string
	RedisPassword string

	TelegramToken string
	Workers       int
}

// Load reads the environment, after loading .env outside production.
func Load() (*Config, error) {
	env := getenv("GO_ENV", "development")
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Debugf("No .env file loaded: %v", err)
		}
	}

	workers, err := strconv.Atoi(getenv("WORKERS", "5"))
	if err != nil || workers < 1 {
		workers = 5
	}

	cfg := &Config{
		Environment:   env,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Port:          getenv("PORT", "8080"),
		CowinURL:      os.Getenv("COWIN_API_URL"),
		CowinToken:    os.Getenv("COWIN_TOKEN"),
		PostalURL:     os.Getenv("POSTAL_API_URL"),
		DBUser:        getenv("DB_USER", "cowin_user"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        getenv("DB_HOST", "localhost:3306"),
		DBName:        getenv("DB_NAME", "cowin_database"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Workers:       workers,
	}

	ConfigureLogger(cfg)
	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
