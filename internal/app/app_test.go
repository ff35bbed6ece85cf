package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/secrets"
)

func TestWithKeyringKey(t *testing.T) {
	keyring.MockInit()

	cfg := config.Default()
	assert.Empty(t, WithKeyringKey(cfg).API.Key)

	require.NoError(t, secrets.SetAPIKey("from-keyring"))
	assert.Equal(t, "from-keyring", WithKeyringKey(cfg).API.Key)

	cfg.API.Key = "from-env"
	assert.Equal(t, "from-env", WithKeyringKey(cfg).API.Key)
}

func TestNewWiresCache(t *testing.T) {
	keyring.MockInit()

	cfg := config.Default()
	cfg.Store.DSN = filepath.Join(t.TempDir(), "cache.db")

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NotNil(t, a.Store)
	assert.NotNil(t, a.Listing)
	assert.NotNil(t, a.Enricher)
	assert.NotNil(t, a.Stats)

	slugs, profiles, err := a.Store.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, slugs)
	assert.Zero(t, profiles)
}

func TestNewWithoutCache(t *testing.T) {
	keyring.MockInit()

	a, err := New(context.Background(), config.Default())
	require.NoError(t, err)
	assert.Nil(t, a.Store)
	assert.NoError(t, a.Close())
}
