package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peggalex/rchkChampionships/internal/constants"
)

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "")

	_, err := Load(zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RIOT_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("DEFAULT_REGION", "")
	t.Setenv("RIOT_MAX_RETRIES", "")
	t.Setenv("RIOT_RETRY_DELAY", "")
	t.Setenv("INGEST_WORKERS", "")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "RGAPI-test", cfg.RiotAPIKey)
	assert.Equal(t, "NA1", cfg.DefaultRegion)
	assert.Equal(t, constants.MaxFetchRetries, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 24*time.Hour, cfg.VersionRefreshTTL)
	assert.Equal(t, constants.DefaultWorkers, cfg.IngestWorkers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("DEFAULT_REGION", "euw1")
	t.Setenv("RIOT_MAX_RETRIES", "2")
	t.Setenv("RIOT_RETRY_DELAY", "250ms")
	t.Setenv("DATA_DRAGON_URL", "http://localhost:9999/")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "EUW1", cfg.DefaultRegion)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, "http://localhost:9999", cfg.DataDragonURL)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"unknown region":   {"DEFAULT_REGION", "MARS"},
		"retries not int":  {"RIOT_MAX_RETRIES", "many"},
		"bad duration":     {"RIOT_RETRY_DELAY", "soon"},
		"negative retries": {"RIOT_MAX_RETRIES", "-1"},
		"zero workers":     {"INGEST_WORKERS", "0"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("RIOT_API_KEY", "RGAPI-test")
			t.Setenv(env[0], env[1])

			_, err := Load(zerolog.Nop())
			assert.Error(t, err)
		})
	}
}
