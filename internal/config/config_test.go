package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 300, cfg.AI.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.Leaderboard.CacheTTL)
	assert.Zero(t, cfg.Curriculum.AdvanceAfter)

	_, err = os.Stat("uploads")
	assert.NoError(t, err, "local storage dir is created")
}

func TestLoadConfig_FromFileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	yaml := `
server:
  port: "9090"
ai:
  provider: mock
  timeout: 5s
curriculum:
  advance_after: 3
leaderboard:
  cache_ttl: 1m
jwt:
  expire_hours: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("SERVER_MODE", "test")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "mock", cfg.AI.Provider)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 3, cfg.Curriculum.AdvanceAfter)
	assert.Equal(t, time.Minute, cfg.Leaderboard.CacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [oops"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "release"},
			Database: DatabaseConfig{Driver: "postgres"},
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			AI:       AIConfig{Provider: "openai", OpenAIAPIKey: "sk-test"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid release", func(c *Config) {}, false},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, true},
		{"mock in release", func(c *Config) { c.AI.Provider = "mock" }, true},
		{"missing api key", func(c *Config) { c.AI.OpenAIAPIKey = "" }, true},
		{"unknown provider", func(c *Config) { c.AI.Provider = "bard" }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"debug skips release checks", func(c *Config) {
			c.Server.Mode = "debug"
			c.JWT.Secret = ""
			c.AI.Provider = "mock"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAIConfig_APIKey(t *testing.T) {
	a := AIConfig{GeminiAPIKey: "g", OpenAIAPIKey: "o", AnthropicAPIKey: "a"}
	for provider, want := range map[string]string{"gemini": "g", "openai": "o", "anthropic": "a", "mock": ""} {
		a.Provider = provider
		assert.Equal(t, want, a.APIKey(), provider)
	}
}
