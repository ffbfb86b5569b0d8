package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.APIAddr)
	assert.Equal(t, "https://nemweb.com.au/Reports/Current", cfg.Upstream.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nemflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
http:
  api_addr: ":9000"
redis:
  addr: "redis.internal:6379"
`), 0o644))

	t.Setenv("NEMFLOW_API_ADDR", ":9100")
	t.Setenv("NEMFLOW_REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9100", cfg.HTTP.APIAddr, "env wins over file")
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("/no/such/file.yaml")
	require.Error(t, err)
}
