package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the environment-driven settings for the service.
type Config struct {
	MongoURI     string
	MongoDBName  string
	ServerPort   string
	LogFile      string
	LogLevel     string
	StoreTimeout time.Duration
}

// Load reads .env (when present) and resolves the service configuration
// from environment variables. MONGO_URI and SERVER_PORT are mandatory.
func Load() (*Config, error) {
	// .env is optional outside of the container setup
	_ = godotenv.Load(".env")

	cfg := &Config{
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDBName:  os.Getenv("MONGO_DB_NAME"),
		ServerPort:   os.Getenv("SERVER_PORT"),
		LogFile:      os.Getenv("LOG_FILE"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		StoreTimeout: 5 * time.Second,
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set in the environment variables")
	}
	if cfg.MongoDBName == "" {
		cfg.MongoDBName = "task_manager_db"
	}
	if cfg.ServerPort == "" {
		return nil, fmt.Errorf("SERVER_PORT is not set in the environment variables")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "logs/api.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if raw := os.Getenv("STORE_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid STORE_TIMEOUT value %q: %v", raw, err)
		}
		cfg.StoreTimeout = timeout
	}

	return cfg, nil
}
