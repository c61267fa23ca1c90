package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Chdir(t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:5000", c.HTTPAddr)
	require.Equal(t, 15*time.Second, c.ShutdownTimeout)
	require.Equal(t, 60*time.Second, c.UpstreamTimeout)
	require.Equal(t, "https://openrouter.ai/api/v1", c.OpenRouterBaseURL)
	require.Equal(t, "Rizz Codes", c.OpenRouterTitle)
	require.Same(t, c, Get())
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("LOG_FORMAT", "console")
	t.Chdir(t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", c.HTTPAddr)
	require.Equal(t, 5*time.Second, c.UpstreamTimeout)
	require.Equal(t, "console", c.LogFormat)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("APP_ENV", "moon")
	t.Chdir(t.TempDir())

	_, err := Load()
	require.Error(t, err)
}

func TestEnvAPIKeyIsLive(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	require.Empty(t, EnvAPIKey())
	t.Setenv(APIKeyEnv, "sk-live")
	require.Equal(t, "sk-live", EnvAPIKey())
}
