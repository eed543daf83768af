package pipeline

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuforge/internal/models"
)

const splitReply = `{
  "functions": [
    {"name": "Parse", "content": "## Parse\n\nParses input.", "file_name": "parse"},
    {"name": "Render", "content": "## Render\n\nRenders output.", "file_name": "render"}
  ],
  "classes": [
    {"name": "Widget", "content": "## Widget\n\nThe widget.", "file_name": "widget"}
  ]
}`

func splitGateway(t *testing.T) *fakeGateway {
	t.Helper()
	return &fakeGateway{
		GenerateFunc: func(_ context.Context, _, _ string) (string, error) {
			return splitReply, nil
		},
	}
}

func TestBundler_GeneratedFilesMatchSplit(t *testing.T) {
	b := NewBundler(splitGateway(t), t.TempDir())

	result, err := b.Bundle(context.Background(), validDraft(), true)
	require.NoError(t, err)

	assert.Equal(t, models.BundleGenerated, result.Status)
	assert.Len(t, result.GeneratedFiles, 3)
	assert.Equal(t, "Generated 3 documentation files", result.Message)
	assert.Empty(t, result.ArchivePath)

	for _, p := range result.GeneratedFiles {
		content, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.NotEmpty(t, content)
	}
	assert.FileExists(t, filepath.Join(result.BaseDirectory, "functions", "parse.md"))
	assert.FileExists(t, filepath.Join(result.BaseDirectory, "classes", "widget.md"))
}

func TestBundler_ArchiveContainsEveryGeneratedFile(t *testing.T) {
	b := NewBundler(splitGateway(t), t.TempDir())

	result, err := b.Bundle(context.Background(), validDraft(), false)
	require.NoError(t, err)

	assert.Equal(t, models.BundleBundled, result.Status)
	require.NotEmpty(t, result.ArchivePath)
	assert.Contains(t, result.Message, result.ArchivePath)

	r, err := zip.OpenReader(result.ArchivePath)
	require.NoError(t, err)
	defer r.Close()

	entries := make(map[string]uint64)
	for _, f := range r.File {
		entries[f.Name] = f.UncompressedSize64
	}
	for _, p := range result.GeneratedFiles {
		rel, err := filepath.Rel(result.BaseDirectory, p)
		require.NoError(t, err)
		size, ok := entries[filepath.ToSlash(rel)]
		assert.True(t, ok, "missing archive entry %s", rel)
		assert.NotZero(t, size)
	}
}

func TestBundler_DistinctDirectoriesPerSecond(t *testing.T) {
	b := NewBundler(splitGateway(t), t.TempDir())

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return base }
	first, err := b.Bundle(context.Background(), validDraft(), true)
	require.NoError(t, err)

	b.now = func() time.Time { return base.Add(time.Second) }
	second, err := b.Bundle(context.Background(), validDraft(), true)
	require.NoError(t, err)

	assert.NotEqual(t, first.BaseDirectory, second.BaseDirectory)
}

func TestBundler_SplitFailureYieldsEmptyBundle(t *testing.T) {
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	b := NewBundler(gw, t.TempDir())

	result, err := b.Bundle(context.Background(), validDraft(), true)
	require.NoError(t, err)
	assert.Empty(t, result.GeneratedFiles)
	assert.Equal(t, "model unavailable", result.Error)
	assert.DirExists(t, filepath.Join(result.BaseDirectory, "functions"))
}

func TestBundler_RejectsFailedDraft(t *testing.T) {
	b := NewBundler(splitGateway(t), t.TempDir())

	_, err := b.Bundle(context.Background(), &models.DraftDocumentation{Status: models.DraftError}, true)

	var se *models.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageBundle, se.Stage)
}
