package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalescape/stale/config"
)

func TestShouldLoadCredentialPathsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/home/u/.config/gcloud/adc.json")
	t.Setenv("AWS_APPLICATION_CREDENTIALS", "/home/u/.aws/sa.json")

	cfg, err := config.LoadClient()

	require.NoError(t, err)
	assert.Equal(t, "/home/u/.config/gcloud/adc.json", cfg.Google.ApplicationCredentials)
	assert.Equal(t, "/home/u/.aws/sa.json", cfg.AWS.ApplicationCredentials)
}

func TestShouldDefaultToEmptyPaths(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("AWS_APPLICATION_CREDENTIALS", "")

	cfg, err := config.LoadClient()

	require.NoError(t, err)
	assert.Empty(t, cfg.Google.ApplicationCredentials)
	assert.Empty(t, cfg.AWS.ApplicationCredentials)
}
