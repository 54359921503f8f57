package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromFile(t *testing.T) {
	cfg, err := NewConfigFrom("config.yml")
	require.NoError(t, err)

	assert.Equal(t, "media-relay", cfg.App.Name)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, int64(100<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Zero(t, cfg.Server.WriteTimeout)
	assert.Equal(t, "social-download-all-in-one.p.rapidapi.com", cfg.Upstream.LinkResolver.Host)
	assert.Equal(t, "https://api-real-time-speech-processing.p.rapidapi.com/asr", cfg.Upstream.Speech.URL)
	assert.Equal(t, "none", cfg.OTEL.Exporter)
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("RAPID_API_KEY", "resolver-key")
	t.Setenv("VOCAL_REMOVER_API_KEY", "vocal-key")
	t.Setenv("SPEECH_RECOGNITION_API_URL", "http://127.0.0.1:9999/asr")

	cfg, err := NewConfigFrom("config.yml")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "resolver-key", cfg.Upstream.LinkResolver.Key)
	assert.Equal(t, "vocal-key", cfg.Upstream.VocalRemover.Key)
	assert.Equal(t, "changeme", cfg.Upstream.Speech.Key)
	assert.Equal(t, "http://127.0.0.1:9999/asr", cfg.Upstream.Speech.URL)
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfigFrom("does-not-exist.yml")
	assert.Error(t, err)
}

func TestNewConfigPathFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "config.yml")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}
