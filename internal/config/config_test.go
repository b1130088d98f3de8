package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageModeFile, cfg.StorageMode)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, AIModeMock, cfg.AIMode)
	assert.Equal(t, 20, cfg.AITimeoutSeconds)
	assert.Equal(t, 250, cfg.WaterStepML)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.NotEmpty(t, cfg.CORSAllowedOrigins)
}

func TestLoadUnknownEnumsFallBack(t *testing.T) {
	t.Setenv("STORAGE_MODE", "floppy")
	t.Setenv("AI_MODE", "oracle")
	t.Setenv("LOG_LEVEL", "LOUD")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageModeFile, cfg.StorageMode)
	assert.Equal(t, AIModeMock, cfg.AIMode)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadInvalidIntegersFallBack(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("AI_TIMEOUT_SECONDS", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 20, cfg.AITimeoutSeconds)
}

func TestLoadDatabasePriority(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://url")
	t.Setenv("DATABASE_URL_POOLED", "postgres://pooled")
	t.Setenv("DATABASE_URL_DIRECT", "postgres://direct")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://pooled", cfg.DatabaseURL)
	assert.Equal(t, "postgres://direct", cfg.DatabaseURLDirect)
}

func TestLoadGeminiKeyFallsBackToAPIKey(t *testing.T) {
	t.Setenv("AI_MODE", "gemini")
	t.Setenv("API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.GeminiAPIKey)
	assert.True(t, cfg.AIKeyConfigured())
}

func TestLoadMissingAIKeyIsNotFatal(t *testing.T) {
	t.Setenv("AI_MODE", "openai")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AIKeyConfigured())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fitbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9090\nstorage_mode: redis\nredis_addr: localhost:6379\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageModeRedis, cfg.StorageMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadEnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fitbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9090\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestCORSOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		parseCORSOrigins(" https://a.example, ,https://b.example", "production"))
	assert.Nil(t, parseCORSOrigins("", "production"))
}

func TestLoadTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 192.168.0.0/16,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "proxy.local")
	_, err = Load()
	assert.Error(t, err)
}

func TestS3ConfigMissingRequired(t *testing.T) {
	cfg := S3Config{Endpoint: "https://storage.example", Bucket: "bucket"}
	assert.Equal(t, []string{"S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY"}, cfg.MissingRequired())
	assert.False(t, cfg.IsConfigured())

	cfg.AccessKeyID = "key"
	cfg.SecretAccessKey = "secret"
	assert.True(t, cfg.IsConfigured())
	assert.NotContains(t, cfg.DiagnosticsSummary(), "secret_access_key=secret")
}
