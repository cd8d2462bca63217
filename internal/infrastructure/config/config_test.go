package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithEnv(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()

	viper.Reset()
	for k, v := range env {
		t.Setenv(k, v)
	}
	return Load()
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	_, err := loadWithEnv(t, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWithEnv(t, map[string]string{
		"JWT_SECRET": "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 168*time.Hour, cfg.JWT.ExpiresIn) // 7 days
}

func TestLoadPostgresDriverRequiresDatabase(t *testing.T) {
	_, err := loadWithEnv(t, map[string]string{
		"JWT_SECRET":     "s3cret",
		"STORAGE_DRIVER": "postgres",
		"DB_HOST":        "",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database host")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	_, err := loadWithEnv(t, map[string]string{
		"JWT_SECRET":     "s3cret",
		"STORAGE_DRIVER": "etcd",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "svc",
		Password: "pw",
		Name:     "communityhub",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=svc password=pw dbname=communityhub sslmode=require",
		cfg.GetDSN())
}
