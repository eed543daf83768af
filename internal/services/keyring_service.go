package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"
)

const keyringServiceName = "docuforge"

// KeyringService stores provider API keys in the OS keychain, falling back
// to environment variables when the keychain has no entry. The env name is
// <PROVIDER>_API_KEY, e.g. OPENAI_API_KEY.
type KeyringService struct {
	open func() (keyring.Keyring, error)
}

func NewKeyringService() *KeyringService {
	return &KeyringService{
		open: func() (keyring.Keyring, error) {
			return keyring.Open(keyring.Config{ServiceName: keyringServiceName})
		},
	}
}

func (s *KeyringService) StoreAPIKey(provider string, apiKey []byte) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}

	ring, err := s.open()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring.Set(keyring.Item{
		Key:   provider,
		Data:  apiKey,
		Label: provider + " API key",
	})
}

// GetAPIKey resolves the key for a provider: keychain first, environment
// second. A missing key in both places is an error.
func (s *KeyringService) GetAPIKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}

	ring, err := s.open()
	if err == nil {
		item, err := ring.Get(provider)
		if err == nil && len(item.Data) > 0 {
			return string(item.Data), nil
		}
	}

	envName := strings.ToUpper(provider) + "_API_KEY"
	if v := os.Getenv(envName); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no API key found for %s (keychain or %s)", provider, envName)
}

func (s *KeyringService) DeleteAPIKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	ring, err := s.open()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring.Remove(provider)
}

// ListProviders returns the providers that have a key stored in the
// keychain. Environment-only keys are not listed.
func (s *KeyringService) ListProviders() ([]string, error) {
	ring, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring.Keys()
}
