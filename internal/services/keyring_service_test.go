package services

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryKeyringService() *KeyringService {
	ring := keyring.NewArrayKeyring(nil)
	return &KeyringService{
		open: func() (keyring.Keyring, error) { return ring, nil },
	}
}

func TestKeyringService_StoreGetDeleteRoundTrip(t *testing.T) {
	svc := newMemoryKeyringService()

	require.NoError(t, svc.StoreAPIKey("openai", []byte("sk-test")))

	key, err := svc.GetAPIKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	providers, err := svc.ListProviders()
	require.NoError(t, err)
	assert.Equal(t, []string{"openai"}, providers)

	require.NoError(t, svc.DeleteAPIKey("openai"))
	providers, err = svc.ListProviders()
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestKeyringService_RejectsEmptyInput(t *testing.T) {
	svc := newMemoryKeyringService()

	assert.Error(t, svc.StoreAPIKey("", []byte("sk-test")))
	assert.Error(t, svc.StoreAPIKey("openai", nil))
	_, err := svc.GetAPIKey("")
	assert.Error(t, err)
	assert.Error(t, svc.DeleteAPIKey(""))
}

func TestKeyringService_EnvFallback(t *testing.T) {
	svc := newMemoryKeyringService()
	t.Setenv("OPENAI_API_KEY", "sk-env")

	key, err := svc.GetAPIKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-env", key)
}

func TestKeyringService_MissingEverywhere(t *testing.T) {
	svc := newMemoryKeyringService()
	t.Setenv("OPENAI_API_KEY", "")

	_, err := svc.GetAPIKey("openai")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
