// Package config holds the runtime configuration of the backend and the
// domain constants shared by the server and the report-flow client.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the environment-driven configuration of the HTTP server.
type Config struct {
	HTTPAddr string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	StreamAPIKey    string
	StreamAPISecret string

	TelegramBotToken string
	TelegramChatID   int64

	CORSOrigins []string
	LogLevel    string
}

// Load reads the configuration from the process environment. Call
// godotenv.Load beforehand to pick up a local .env file.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:         ":" + getenv("PORT", "5000"),
		DBHost:           getenv("DB_HOST", "localhost"),
		DBUser:           getenv("DB_USER", "user"),
		DBPassword:       getenv("DB_PASSWORD", "password"),
		DBName:           getenv("DB_NAME", "childguarddb"),
		DBPort:           getenv("DB_PORT", "5432"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		StreamAPIKey:     os.Getenv("STREAM_API_KEY"),
		StreamAPISecret:  os.Getenv("STREAM_API_SECRET"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getenv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// ChatEnabled reports whether hosted-chat credentials are configured.
func (c *Config) ChatEnabled() bool {
	return c.StreamAPIKey != "" && c.StreamAPISecret != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
