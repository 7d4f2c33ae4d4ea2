package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	SQLitePath   string
	ForceBackend string
	RedisURL     string
	CacheTTL     time.Duration
}

// LoadConfig reads settings from the environment. Outside production a .env
// file in the working directory is loaded first if present.
func LoadConfig() (Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing with process environment")
		}
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds a Config from a lookup function so tests can avoid
// touching the process environment.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:          getenv("APP_ENV"),
		Port:         getenv("PORT"),
		DatabaseURL:  strings.TrimSpace(getenv("DATABASE_URL")),
		SQLitePath:   getenv("SQLITE_PATH"),
		ForceBackend: strings.ToLower(strings.TrimSpace(getenv("FORCE_BACKEND"))),
		RedisURL:     strings.TrimSpace(getenv("REDIS_URL")),
		CacheTTL:     30 * time.Second,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "data/tasks.db"
	}
	if v := getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid CACHE_TTL %q", v)
		}
		cfg.CacheTTL = ttl
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
