package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"

	"docuforge/internal/github"
	"docuforge/internal/models"
)

// fakeGateway scripts LLM replies per call. When a func field is nil the
// call fails loudly so a test cannot silently exercise the wrong path.
type fakeGateway struct {
	GenerateFunc    func(ctx context.Context, system, user string) (string, error)
	RunToolLoopFunc func(ctx context.Context, system, user string, tools []tool.BaseTool) (string, error)
}

func (g *fakeGateway) Generate(ctx context.Context, system, user string) (string, error) {
	if g.GenerateFunc == nil {
		return "", fmt.Errorf("unexpected Generate call")
	}
	return g.GenerateFunc(ctx, system, user)
}

func (g *fakeGateway) RunToolLoop(ctx context.Context, system, user string, tools []tool.BaseTool) (string, error) {
	if g.RunToolLoopFunc == nil {
		return "", fmt.Errorf("unexpected RunToolLoop call")
	}
	return g.RunToolLoopFunc(ctx, system, user, tools)
}

// scriptedGateway routes Generate calls on distinctive prompt phrases so one
// fake can serve a whole pipeline run.
func scriptedGateway(replies map[string]string, contextJSON string) *fakeGateway {
	return &fakeGateway{
		GenerateFunc: func(_ context.Context, system, _ string) (string, error) {
			for marker, reply := range replies {
				if strings.Contains(system, marker) {
					return reply, nil
				}
			}
			return "", fmt.Errorf("no scripted reply for prompt: %.60s", system)
		},
		RunToolLoopFunc: func(_ context.Context, _, _ string, _ []tool.BaseTool) (string, error) {
			return contextJSON, nil
		},
	}
}

// fakeSource implements github.Source with func fields; unset operations
// return not-found.
type fakeSource struct {
	GetRepositoryFunc  func(ctx context.Context, repo string) (*models.RepositoryInfo, error)
	ListTreeFunc       func(ctx context.Context, repo, ref string) ([]string, error)
	GetFileContentFunc func(ctx context.Context, repo, path string) (string, error)
}

func (s *fakeSource) GetRepository(ctx context.Context, repo string) (*models.RepositoryInfo, error) {
	if s.GetRepositoryFunc == nil {
		return nil, github.ErrNotFound
	}
	return s.GetRepositoryFunc(ctx, repo)
}

func (s *fakeSource) ListTree(ctx context.Context, repo, ref string) ([]string, error) {
	if s.ListTreeFunc == nil {
		return nil, github.ErrNotFound
	}
	return s.ListTreeFunc(ctx, repo, ref)
}

func (s *fakeSource) GetFileContent(ctx context.Context, repo, path string) (string, error) {
	if s.GetFileContentFunc == nil {
		return "", github.ErrNotFound
	}
	return s.GetFileContentFunc(ctx, repo, path)
}

func (s *fakeSource) SearchCode(context.Context, string, string) ([]models.CodeSearchHit, error) {
	return nil, nil
}

func (s *fakeSource) GetCommitHistory(context.Context, string, string, int) ([]string, error) {
	return nil, nil
}

func (s *fakeSource) GetReadme(context.Context, string) (string, error) {
	return "", github.ErrNotFound
}

func (s *fakeSource) GetChangelog(context.Context, string) (string, error) {
	return github.NoChangelogSentinel, nil
}

func (s *fakeSource) GetContributing(context.Context, string) (string, error) {
	return github.NoContributingSentinel, nil
}

func (s *fakeSource) ExtractDocstrings(string) ([]string, error) { return nil, nil }

func (s *fakeSource) ReadLocalFile(string) (string, error) { return "", github.ErrNotFound }

func (s *fakeSource) ListLocalFiles(string, string) ([]string, error) { return nil, nil }
