package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "playground")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "playground")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Server.CookieSecure)
	assert.Equal(t, int64(1024*1024), cfg.Server.MaxRequestSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, time.Duration(0), cfg.LLM.CacheTTL)
	assert.Equal(t, "configs/courses.yaml", cfg.Playground.CoursesFile)
	assert.Equal(t, 30*24*time.Hour, cfg.Playground.GuestProgressTTL)
	assert.Equal(t, 60*time.Second, cfg.Playground.WriteTimeout)
	assert.Equal(t, "playground:secret@tcp(localhost:3306)/playground?parseTime=true&charset=utf8mb4", cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com , ,https://b.example.com")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("LLM_MAX_ATTEMPTS", "5")
	t.Setenv("GENERATION_CACHE_TTL", "24h")
	t.Setenv("GUEST_PROGRESS_TTL", "72h")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.CookieSecure)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.LLM.MaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.LLM.CacheTTL)
	assert.Equal(t, 72*time.Hour, cfg.Playground.GuestProgressTTL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "missing db host", key: "DB_HOST", val: ""},
		{name: "invalid db port", key: "DB_PORT", val: "abc"},
		{name: "missing jwt secret", key: "JWT_SECRET", val: ""},
		{name: "invalid server port", key: "SERVER_PORT", val: "eighty"},
		{name: "invalid cookie flag", key: "COOKIE_SECURE", val: "maybe"},
		{name: "invalid write timeout", key: "WRITE_TIMEOUT", val: "soon"},
		{name: "provider without key", key: "LLM_PROVIDER", val: "openai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.val)

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadTestConfig(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "")

		cfg, err := LoadTestConfig()

		require.NoError(t, err)
		assert.False(t, cfg.HasDatabase())
	})

	t.Run("configured", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "127.0.0.1")
		t.Setenv("TEST_DB_PORT", "3307")
		t.Setenv("TEST_DB_USER", "root")
		t.Setenv("TEST_DB_PASSWORD", "pw")
		t.Setenv("TEST_DB_NAME", "playground_test")

		cfg, err := LoadTestConfig()

		require.NoError(t, err)
		assert.True(t, cfg.HasDatabase())
		assert.Equal(t, "root:pw@tcp(127.0.0.1:3307)/playground_test?parseTime=true&charset=utf8mb4", cfg.DSN())
	})
}
