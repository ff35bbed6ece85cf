package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestAPIKeyRoundTrip(t *testing.T) {
	keyring.MockInit()

	_, err := GetAPIKey()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, SetAPIKey("  abc123 "))
	key, err := GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)

	require.NoError(t, DeleteAPIKey())
	_, err = GetAPIKey()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, DeleteAPIKey(), ErrNotFound)
}

func TestSetAPIKeyRejectsBlank(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SetAPIKey("   "))
}
