package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level application configuration.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	GitHub   GitHubConfig   `toml:"github"`
	Output   OutputConfig   `toml:"output"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
}

// ProviderConfig selects the LLM provider and model.
type ProviderConfig struct {
	Name         string `toml:"name"`
	Model        string `toml:"model"`
	APIKeySource string `toml:"api_key_source"` // "keyring" or "env"
	MaxSteps     int    `toml:"max_steps"`
}

// GitHubConfig holds data-source settings.
type GitHubConfig struct {
	Token     string `toml:"token"`
	BaseURL   string `toml:"base_url"`
	CacheSize int    `toml:"cache_size"`
	LocalRoot string `toml:"local_root"`
}

// OutputConfig locates generated documentation on disk.
type OutputConfig struct {
	Root string `toml:"root"`
}

// ServerConfig holds the chat and tool server listen addresses.
type ServerConfig struct {
	ChatAddr string `toml:"chat_addr"`
	ToolAddr string `toml:"tool_addr"`
}

// DatabaseConfig locates the run history database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:         "openai",
			Model:        "gpt-4o",
			APIKeySource: "keyring",
			MaxSteps:     15,
		},
		GitHub: GitHubConfig{
			CacheSize: 256,
		},
		Output: OutputConfig{
			Root: "generated_docs",
		},
		Server: ServerConfig{
			ChatAddr: ":8765",
			ToolAddr: ":8766",
		},
	}
}

// Load reads a TOML config file, layering it over the defaults. A missing
// file is not an error; the defaults apply as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
