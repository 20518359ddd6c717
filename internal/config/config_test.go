package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "COMBINATIONS_PATH", "SESSION_LIFETIME", "DISCORD_KEY", "DISCORD_SECRET", "GOOGLE_KEY", "GOOGLE_SECRET"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "wc_bracket.db", cfg.DBPath)
	assert.Equal(t, "static/group_combinations.csv", cfg.CombinationsPath)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.False(t, cfg.Discord.Enabled())
	assert.False(t, cfg.Google.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/brackets.db")
	t.Setenv("SESSION_LIFETIME", "90m")
	t.Setenv("DISCORD_KEY", "key")
	t.Setenv("DISCORD_SECRET", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "/tmp/brackets.db", cfg.DBPath)
	assert.Equal(t, 90*time.Minute, cfg.SessionLifetime)
	assert.True(t, cfg.Discord.Enabled())
}

func TestFromEnvRejectsBadLifetime(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a duration", "tomorrow"},
		{"negative", "-1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SESSION_LIFETIME", tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
