package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_NAME", "hooprun_test")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig("does-not-exist.yaml")
	require.NoError(t, err)

	// Defaults survive when nothing overrides them
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)

	// Environment wins over defaults
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "hooprun_test", cfg.Database.DBName)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestModeHelpers(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Mode = "development"
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.UseQStash())

	cfg.QStash.ForceQStash = true
	assert.True(t, cfg.UseQStash())

	cfg.Server.Mode = "Production"
	assert.True(t, cfg.IsProduction())
}

func TestQStashWorkerURL(t *testing.T) {
	cfg := &Config{}
	cfg.Email.FrontendURL = "https://hooprun.app/"
	assert.Equal(t, "https://hooprun.app/api/email-worker", cfg.QStashWorkerURL())

	cfg.QStash.CallbackURL = "https://api.hooprun.app"
	assert.Equal(t, "https://api.hooprun.app/api/email-worker", cfg.QStashWorkerURL())
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "postgres"
	cfg.Database.Password = "secret"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.DBName = "hooprun"

	assert.Equal(t,
		"postgres://postgres:secret@db:5432/hooprun?sslmode=disable",
		cfg.GetPostgresConnectionString())
}
