package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("MONGO_DB_NAME", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STORE_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "task_manager_db", cfg.MongoDBName)
	assert.Equal(t, "logs/api.log", cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MONGO_DB_NAME", "other_db")
	t.Setenv("LOG_FILE", "/var/log/api.log")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "other_db", cfg.MongoDBName)
	assert.Equal(t, "/var/log/api.log", cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("SERVER_PORT", "8080")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SERVER_PORT", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

func TestLoadInvalidStoreTimeout(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("STORE_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_TIMEOUT")
}
