package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("OUTGOING_WEBHOOK_TOKEN", "test-webhook-token")
}

func TestLoad_AllRequiredVarsSet(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "test-webhook-token", cfg.WebhookToken)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		skipEnv string
		wantErr string
	}{
		{"missing REDIS_URL", "REDIS_URL", "REDIS_URL is required"},
		{"missing OUTGOING_WEBHOOK_TOKEN", "OUTGOING_WEBHOOK_TOKEN", "OUTGOING_WEBHOOK_TOKEN is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.skipEnv, "")

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "trebekbot", cfg.BotUsername)
	assert.Equal(t, 30, cfg.SecondsToAnswer)
	assert.Equal(t, 0.5, cfg.SimilarityThreshold)
	assert.Empty(t, cfg.ChannelBlacklist)
	assert.Empty(t, cfg.AdminUsers)
}

func TestLoad_ListParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHANNEL_BLACKLIST", "#general, random ,#ops")
	t.Setenv("ADMIN_USERS", "alex,sam")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"#general", "random", "#ops"}, cfg.ChannelBlacklist)
	assert.Equal(t, []string{"alex", "sam"}, cfg.AdminUsers)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric seconds", "SECONDS_TO_ANSWER", "soon"},
		{"negative seconds", "SECONDS_TO_ANSWER", "-5"},
		{"non-numeric threshold", "SIMILARITY_THRESHOLD", "high"},
		{"threshold above one", "SIMILARITY_THRESHOLD", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECONDS_TO_ANSWER", "45")
	t.Setenv("SIMILARITY_THRESHOLD", "0.7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.SecondsToAnswer)
	assert.Equal(t, 0.7, cfg.SimilarityThreshold)
}
