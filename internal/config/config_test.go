package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "jwt-secret")

	cfg := GetConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DBDriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "jwt-secret", cfg.Auth.SIGNING_SECRET)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Certificate.NumberMaxAttempts)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "jwt-secret")
	base := GetConfig()

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing jwt secret", func(c *Config) { c.Auth.JWT_SECRET = " " }},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 2 }},
		{"unknown db driver", func(c *Config) { c.DB.Driver = "sqlite" }},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "ftp" }},
		{"minio without endpoint", func(c *Config) { c.Storage.Driver = StorageDriverMinio; c.Minio.ENDPOINT = "" }},
		{"verify pattern without placeholder", func(c *Config) { c.Certificate.VerifyURLPattern = "http://localhost/verify" }},
		{"zero number attempts", func(c *Config) { c.Certificate.NumberMaxAttempts = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestIsProduction(t *testing.T) {
	assert.True(t, Config{ENV: "Production"}.IsProduction())
	assert.False(t, Config{ENV: "development"}.IsProduction())
}
