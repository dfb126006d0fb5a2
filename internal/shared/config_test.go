package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"REVIEWLENS_CONFIG", "HTTP_ADDR", "CACHE_BACKEND", "GROQ_MODEL", "FETCH_LIMIT", "LLM_PROVIDER", "LLM_TEMPERATURE", "CACHE_TTL_SECONDS"} {
		t.Setenv(k, "") // restores the original value after the test
		os.Unsetenv(k)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir()) // no .env here

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "memory", c.CacheBackend)
	assert.Equal(t, 24*time.Hour, c.CacheTTL)
	assert.Equal(t, 0.2, c.LLMTemperature)
	assert.Equal(t, 256, c.LLMMaxTokens)
	assert.Equal(t, 500, c.FetchLimit)
	assert.Equal(t, 2000, c.HistoryFetchLimit)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "reviewlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":9090\"\ngroq_model: from-file\nfetch_limit: 100\ncache_ttl_seconds: 60\n"), 0o600))
	t.Setenv("REVIEWLENS_CONFIG", path)
	t.Setenv("GROQ_MODEL", "from-env")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, "from-env", c.GroqModel)
	assert.Equal(t, 100, c.FetchLimit)
	assert.Equal(t, time.Minute, c.CacheTTL)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LLM_PROVIDER=stub\n"), 0o600))

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "stub", c.LLMProvider)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("CACHE_BACKEND", "memcached")
	t.Setenv("LLM_TEMPERATURE", "3")
	t.Setenv("FETCH_LIMIT", "20000")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"CACHE_BACKEND", "LLM_TEMPERATURE", "FETCH_LIMIT"} {
		assert.True(t, strings.Contains(err.Error(), want), want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("REVIEWLENS_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.ErrorContains(t, err, "read config file")
}
