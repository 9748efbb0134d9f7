package config_test

import (
	"testing"

	"feed-sync/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "feeds", cfg.Storage.Bucket)
	assert.Equal(t, "file", cfg.Feed.Source)
	assert.Equal(t, "csv", cfg.Feed.Format)
	assert.Equal(t, "update", cfg.Feed.Reactivation)
	assert.Equal(t, "file", cfg.KnownSet.Backend)
	assert.Equal(t, "known_skus.json", cfg.KnownSet.Path)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FEED_SOURCE", "object")
	t.Setenv("KNOWNSET_BACKEND", "db")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "object", cfg.Feed.Source)
	assert.Equal(t, "db", cfg.KnownSet.Backend)
}
