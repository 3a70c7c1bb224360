package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRACKTIMES_AUTH_JWTSECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/track-times.db", cfg.Database.Path)
	assert.Equal(t, "bcrypt", cfg.Hasher.Algorithm)
	assert.Equal(t, 10, cfg.Hasher.BcryptCost)
	assert.Equal(t, "exports", cfg.Storage.KeyPrefix)
	assert.Equal(t, 2, cfg.Export.MaxConcurrent)
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.False(t, cfg.StorageEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRACKTIMES_AUTH_JWTSECRET", "secret")
	t.Setenv("TRACKTIMES_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TRACKTIMES_DATABASE_DRIVER", "postgres")
	t.Setenv("TRACKTIMES_DATABASE_DSN", "postgres://localhost/tt")
	t.Setenv("TRACKTIMES_STORAGE_BUCKET", "exports-bucket")
	t.Setenv("TRACKTIMES_AUTH_TOKENTTLMINUTES", "5")
	t.Setenv("TRACKTIMES_EXPORT_MAXCONCURRENT", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/tt", cfg.Database.DSN)
	assert.True(t, cfg.StorageEnabled())
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL())
	assert.Equal(t, 4, cfg.Export.MaxConcurrent)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"TRACKTIMES_AUTH_JWTSECRET=from-dotenv\nTRACKTIMES_HASHER_ALGORITHM=argon2id\n",
	), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TRACKTIMES_AUTH_JWTSECRET")
		os.Unsetenv("TRACKTIMES_HASHER_ALGORITHM")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
	assert.Equal(t, "argon2id", cfg.Hasher.Algorithm)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Auth.JWTSecret = "secret"
		c.Auth.TokenTTLMinutes = 60
		c.Database.Driver = "sqlite"
		c.Database.Path = "db.sqlite"
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = " " }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTLMinutes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, valid().Validate())
}
