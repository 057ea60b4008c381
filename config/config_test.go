package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Analytics.VisitCapacity)
	assert.Equal(t, 500, cfg.Analytics.ContactCapacity)
	assert.Equal(t, 24*time.Hour, cfg.Analytics.VisitRecentWindow)
	assert.Equal(t, 7*24*time.Hour, cfg.Analytics.ContactRecentWindow)
	assert.Equal(t, 10*time.Second, cfg.Analytics.BounceThreshold)
	assert.Equal(t, 300*time.Second, cfg.Analytics.FastConversion)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Email.Enabled())
	assert.False(t, cfg.Admin.Enabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
analytics:
  visit_capacity: 50
  contact_capacity: 20
  timezone: UTC
`), 0o600))

	t.Setenv("ANALYTICS_CONTACT_CAPACITY", "30")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ANALYTICS_BOUNCE_THRESHOLD", "15s")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Analytics.VisitCapacity)
	assert.Equal(t, 30, cfg.Analytics.ContactCapacity)
	assert.Equal(t, 15*time.Second, cfg.Analytics.BounceThreshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RESEND_API_KEY=re_test\nTO_EMAIL=me@example.com,you@example.com\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("RESEND_API_KEY")
		os.Unsetenv("TO_EMAIL")
	})

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, []string{"me@example.com", "you@example.com"}, cfg.Email.To)
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("", "does-not-exist.env")
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero visit capacity", func(c *Config) { c.Analytics.VisitCapacity = 0 }},
		{"negative contact capacity", func(c *Config) { c.Analytics.ContactCapacity = -1 }},
		{"zero recent window", func(c *Config) { c.Analytics.VisitRecentWindow = 0 }},
		{"negative bounce threshold", func(c *Config) { c.Analytics.BounceThreshold = -time.Second }},
		{"zero top n", func(c *Config) { c.Analytics.TopN = 0 }},
		{"unknown timezone", func(c *Config) { c.Analytics.TimeZone = "Mars/Olympus" }},
		{"admin without secret", func(c *Config) { c.Admin.Password = "pw" }},
		{"origin without scheme", func(c *Config) { c.Server.CORSOrigins = []string{"localhost:3000"} }},
		{"email without recipients", func(c *Config) { c.Email.ResendAPIKey = "re_x" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
