package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "GIN_MODE", "DATA_DIR", "SYLLABLE_DICT", "DEBUG", "DEV_MODE",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CACHE_SIZE", "CACHE_TTL", "MAX_CONTENT_BYTES",
}

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DEBUG", "true")
	t.Setenv("DEV_MODE", "yes")
	t.Setenv("RATE_LIMIT_RPS", "10.5")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SYLLABLE_DICT", "/tmp/cmudict")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.DevMode, "only true/false are accepted")
	assert.Equal(t, 10.5, cfg.RateLimitRPS)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "/tmp/cmudict", cfg.SyllableDict)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_SIZE", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFileOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "copyscore.toml")
	content := `
[server]
port = "7000"
rate-limit-burst = 20

[scoring]
max-keywords = 5
words-per-minute = 250.0

[cache]
size = 50
ttl = "5m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Port, "environment wins over the file")
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 5, cfg.MaxKeywords)
	assert.Equal(t, 250.0, cfg.WordsPerMinute)
	assert.Equal(t, 50, cfg.CacheSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		fc, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, FileConfig{}, fc)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[cache\nsize ="), 0o644))
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("bad ttl", func(t *testing.T) {
		ttl := "soon"
		cfg := Default()
		assert.Error(t, cfg.apply(FileConfig{Cache: CacheConfig{TTL: &ttl}}))
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.RateLimitBurst = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MaxContentBytes = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Port = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.GinMode = "production"
	assert.Error(t, cfg.Validate())
}
