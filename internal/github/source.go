package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docuforge/internal/models"
)

// ErrNotFound marks data-source lookups whose target does not exist
// (HTTP 404 from the API or a missing local file).
var ErrNotFound = errors.New("not found")

// Sentinels for the optional repository artifacts, matching the wording the
// collector prompt teaches the model to expect.
const (
	NoChangelogSentinel    = "No changelog file found."
	NoContributingSentinel = "No contributing file found."
)

// Candidate filenames, probed in order, first hit wins.
var (
	ChangelogCandidates = []string{
		"CHANGELOG.md", "Changelog.md", "changelog.md",
		"CHANGES.md", "Changes.md", "changes.md",
	}
	ContributingCandidates = []string{
		"CONTRIBUTING.md", "Contributing.md", "contributing.md",
	}
)

// Source is the full set of repository-data operations consumed by the
// pipeline, the agent tool layer, and the ghsource HTTP server.
type Source interface {
	GetRepository(ctx context.Context, repo string) (*models.RepositoryInfo, error)
	SearchCode(ctx context.Context, repo, query string) ([]models.CodeSearchHit, error)
	GetFileContent(ctx context.Context, repo, path string) (string, error)
	GetCommitHistory(ctx context.Context, repo, path string, limit int) ([]string, error)
	GetReadme(ctx context.Context, repo string) (string, error)
	GetChangelog(ctx context.Context, repo string) (string, error)
	GetContributing(ctx context.Context, repo string) (string, error)
	ListTree(ctx context.Context, repo, ref string) ([]string, error)

	ExtractDocstrings(path string) ([]string, error)
	ReadLocalFile(path string) (string, error)
	ListLocalFiles(root, pattern string) ([]string, error)
}

// SplitRepo splits an "owner/name" identifier.
func SplitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(strings.TrimSpace(repo), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository identifier %q, expected owner/name", repo)
	}
	return parts[0], parts[1], nil
}
