package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"docuforge/internal/models"
)

const (
	defaultCacheSize    = 256
	defaultCommitLimit  = 10
	maxSearchResults    = 30
	requestsPerSecond   = 5
	requestBurst        = 10
	maxTreeEntries      = 2000
	maxFileContentBytes = 512 * 1024
)

// Client wraps the GitHub REST API behind the Source interface. Fetched file
// contents are cached in an LRU so the changelog/contributing probes and the
// agent's repeated reads do not burn API quota, and every remote call goes
// through a client-side rate limiter.
type Client struct {
	gh      *github.Client
	limiter *rate.Limiter
	cache   *lru.Cache[string, string]

	// localRoot, when set, points at a local clone used for commit history
	// instead of the REST API.
	localRoot string
}

// ClientOptions configures a Client. Zero values select defaults.
type ClientOptions struct {
	Token     string
	BaseURL   string // override for tests and GHE deployments
	CacheSize int
	LocalRoot string
}

func NewClient(opts ClientOptions) (*Client, error) {
	gh := github.NewClient(nil)
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		gh.BaseURL = parsed
	}

	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create content cache: %w", err)
	}

	return &Client{
		gh:        gh,
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		cache:     cache,
		localRoot: opts.LocalRoot,
	}, nil
}

func (c *Client) GetRepository(ctx context.Context, repo string) (*models.RepositoryInfo, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	r, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, wrapAPIError("get repository", repo, resp, err)
	}
	return &models.RepositoryInfo{
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		DefaultBranch: r.GetDefaultBranch(),
		Language:      r.GetLanguage(),
	}, nil
}

func (c *Client) SearchCode(ctx context.Context, repo, query string) ([]models.CodeSearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	q := fmt.Sprintf("%s repo:%s", query, repo)
	result, resp, err := c.gh.Search.Code(ctx, q, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: maxSearchResults},
	})
	if err != nil {
		return nil, wrapAPIError("search code", repo, resp, err)
	}
	hits := make([]models.CodeSearchHit, 0, len(result.CodeResults))
	for _, item := range result.CodeResults {
		hits = append(hits, models.CodeSearchHit{
			Name:       item.GetName(),
			Path:       item.GetPath(),
			URL:        item.GetHTMLURL(),
			Repository: item.GetRepository().GetFullName(),
		})
	}
	return hits, nil
}

func (c *Client) GetFileContent(ctx context.Context, repo, path string) (string, error) {
	cacheKey := "file:" + repo + ":" + path
	if content, ok := c.cache.Get(cacheKey); ok {
		return content, nil
	}

	owner, name, err := SplitRepo(repo)
	if err != nil {
		return "", err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		return "", wrapAPIError("get file content", repo+"/"+path, resp, err)
	}
	if file == nil {
		return "", fmt.Errorf("get file content %s/%s: %w (path is a directory)", repo, path, ErrNotFound)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode file content %s/%s: %w", repo, path, err)
	}
	if len(content) > maxFileContentBytes {
		content = content[:maxFileContentBytes]
	}
	c.cache.Add(cacheKey, content)
	return content, nil
}

// GetCommitHistory returns up to limit commit messages touching path, newest
// first. When the client is bound to a local clone the history comes from
// the clone instead of the REST API.
func (c *Client) GetCommitHistory(ctx context.Context, repo, path string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultCommitLimit
	}
	if c.localRoot != "" {
		return localCommitHistory(c.localRoot, path, limit)
	}

	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
		Path:        path,
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, wrapAPIError("get commit history", repo, resp, err)
	}
	history := make([]string, 0, len(commits))
	for _, commit := range commits {
		history = append(history, commit.GetCommit().GetMessage())
	}
	return history, nil
}

func (c *Client) GetReadme(ctx context.Context, repo string) (string, error) {
	cacheKey := "readme:" + repo
	if content, ok := c.cache.Get(cacheKey); ok {
		return content, nil
	}

	owner, name, err := SplitRepo(repo)
	if err != nil {
		return "", err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	readme, resp, err := c.gh.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		return "", wrapAPIError("get readme", repo, resp, err)
	}
	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme %s: %w", repo, err)
	}
	c.cache.Add(cacheKey, content)
	return content, nil
}

// GetChangelog probes the fixed candidate filename list in order and returns
// the first hit, or the not-found sentinel when none exists.
func (c *Client) GetChangelog(ctx context.Context, repo string) (string, error) {
	return c.probeCandidates(ctx, repo, ChangelogCandidates, NoChangelogSentinel)
}

// GetContributing mirrors GetChangelog for contributing guides.
func (c *Client) GetContributing(ctx context.Context, repo string) (string, error) {
	return c.probeCandidates(ctx, repo, ContributingCandidates, NoContributingSentinel)
}

func (c *Client) probeCandidates(ctx context.Context, repo string, candidates []string, sentinel string) (string, error) {
	for _, name := range candidates {
		content, err := c.GetFileContent(ctx, repo, name)
		if err == nil {
			return content, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return "", err
	}
	return sentinel, nil
}

// ListTree returns the blob paths of the repository tree at ref, capped at
// maxTreeEntries.
func (c *Client) ListTree(ctx context.Context, repo, ref string) ([]string, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		ref = "HEAD"
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	tree, resp, err := c.gh.Git.GetTree(ctx, owner, name, ref, true)
	if err != nil {
		return nil, wrapAPIError("list tree", repo, resp, err)
	}
	paths := make([]string, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		paths = append(paths, entry.GetPath())
		if len(paths) >= maxTreeEntries {
			break
		}
	}
	return paths, nil
}

func wrapAPIError(op, target string, resp *github.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", op, target, ErrNotFound)
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", op, target, ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", op, target, err)
}
