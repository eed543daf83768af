package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider.Name)
	assert.Equal(t, "generated_docs", cfg.Output.Root)
	assert.Equal(t, 256, cfg.GitHub.CacheSize)
	assert.Equal(t, ":8765", cfg.Server.ChatAddr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	content := `
[provider]
name = "anthropic"
model = "claude-sonnet-4-5"

[output]
root = "/tmp/docs"

[github]
token = "ghp_test"
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider.Name)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Provider.Model)
	assert.Equal(t, "/tmp/docs", cfg.Output.Root)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	// Untouched sections keep their defaults.
	assert.Equal(t, 15, cfg.Provider.MaxSteps)
	assert.Equal(t, ":8766", cfg.Server.ToolAddr)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("provider = [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
