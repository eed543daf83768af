package client

import (
	"encoding/json"
	"fmt"

	"docuforge/internal/assets"
)

// ProviderEntry is one provider and its known model names.
type ProviderEntry struct {
	Name   string   `json:"name"`
	Models []string `json:"models"`
}

type modelRegistry struct {
	Providers []ProviderEntry `json:"providers"`
}

// SupportedModels returns the embedded provider/model registry.
func SupportedModels() ([]ProviderEntry, error) {
	var registry modelRegistry
	if err := json.Unmarshal(assets.ModelsData, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse model registry: %w", err)
	}
	return registry.Providers, nil
}
