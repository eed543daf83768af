package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"docuforge/internal/github"
	"docuforge/internal/models"
)

// SearchCodeInput defines the parameters for the code search tool.
type SearchCodeInput struct {
	Repo  string `json:"repo" jsonschema:"description=Repository identifier in owner/name form"`
	Query string `json:"query" jsonschema:"description=Code search query"`
}

type SearchCodeOutput struct {
	Results []models.CodeSearchHit `json:"results"`
}

// FileContentInput defines the parameters for the file content tool.
type FileContentInput struct {
	Repo string `json:"repo" jsonschema:"description=Repository identifier in owner/name form"`
	Path string `json:"path" jsonschema:"description=File path inside the repository"`
}

type FileContentOutput struct {
	Content string `json:"content"`
}

// CommitHistoryInput defines the parameters for the commit history tool.
type CommitHistoryInput struct {
	Repo  string `json:"repo" jsonschema:"description=Repository identifier in owner/name form"`
	Path  string `json:"path,omitempty" jsonschema:"description=Optional path to scope the history to"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of commit messages (defaults to 10)"`
}

type CommitHistoryOutput struct {
	Messages []string `json:"messages"`
}

// RepoInput is shared by the readme, changelog and contributing tools.
type RepoInput struct {
	Repo string `json:"repo" jsonschema:"description=Repository identifier in owner/name form"`
}

type TextOutput struct {
	Content string `json:"content"`
}

// LocalPathInput is shared by the local file tools.
type LocalPathInput struct {
	Path string `json:"path" jsonschema:"description=Path to a file on the local filesystem"`
}

type DocstringsOutput struct {
	Docstrings []string `json:"docstrings"`
}

// ListLocalFilesInput defines the parameters for the local listing tool.
type ListLocalFilesInput struct {
	Root    string `json:"root" jsonschema:"description=Directory to list"`
	Pattern string `json:"pattern,omitempty" jsonschema:"description=Glob pattern relative to root, ** is supported"`
}

type ListLocalFilesOutput struct {
	Files []string `json:"files"`
}

// RepoTools wires every data-source operation into an eino tool set for the
// context collector's agent loop. Lookup misses are reported back to the
// model as tool output rather than aborting the loop, so it can fall back to
// the "Null" sentinel.
func RepoTools(source github.Source) ([]tool.BaseTool, error) {
	searchCode := func(ctx context.Context, in *SearchCodeInput) (*SearchCodeOutput, error) {
		if in == nil || strings.TrimSpace(in.Repo) == "" {
			return nil, fmt.Errorf("repo is required")
		}
		hits, err := source.SearchCode(ctx, in.Repo, in.Query)
		if err != nil {
			return nil, err
		}
		return &SearchCodeOutput{Results: hits}, nil
	}

	fileContent := func(ctx context.Context, in *FileContentInput) (*FileContentOutput, error) {
		if in == nil || strings.TrimSpace(in.Repo) == "" || strings.TrimSpace(in.Path) == "" {
			return nil, fmt.Errorf("repo and path are required")
		}
		content, err := source.GetFileContent(ctx, in.Repo, in.Path)
		if err != nil {
			if errors.Is(err, github.ErrNotFound) {
				return &FileContentOutput{Content: fmt.Sprintf("File %s not found in %s.", in.Path, in.Repo)}, nil
			}
			return nil, err
		}
		return &FileContentOutput{Content: content}, nil
	}

	commitHistory := func(ctx context.Context, in *CommitHistoryInput) (*CommitHistoryOutput, error) {
		if in == nil || strings.TrimSpace(in.Repo) == "" {
			return nil, fmt.Errorf("repo is required")
		}
		messages, err := source.GetCommitHistory(ctx, in.Repo, in.Path, in.Limit)
		if err != nil {
			return nil, err
		}
		return &CommitHistoryOutput{Messages: messages}, nil
	}

	readme := func(ctx context.Context, in *RepoInput) (*TextOutput, error) {
		if in == nil || strings.TrimSpace(in.Repo) == "" {
			return nil, fmt.Errorf("repo is required")
		}
		content, err := source.GetReadme(ctx, in.Repo)
		if err != nil {
			if errors.Is(err, github.ErrNotFound) {
				return &TextOutput{Content: "No readme file found."}, nil
			}
			return nil, err
		}
		return &TextOutput{Content: content}, nil
	}

	changelog := func(ctx context.Context, in *RepoInput) (*TextOutput, error) {
		if in == nil || strings.TrimSpace(in.Repo) == "" {
			return nil, fmt.Errorf("repo is required")
		}
		content, err := source.GetChangelog(ctx, in.Repo)
		if err != nil {
			return nil, err
		}
		return &TextOutput{Content: content}, nil
	}

	contributing := func(ctx context.Context, in *RepoInput) (*TextOutput, error) {
		if in == nil || strings.TrimSpace(in.Repo) == "" {
			return nil, fmt.Errorf("repo is required")
		}
		content, err := source.GetContributing(ctx, in.Repo)
		if err != nil {
			return nil, err
		}
		return &TextOutput{Content: content}, nil
	}

	docstrings := func(_ context.Context, in *LocalPathInput) (*DocstringsOutput, error) {
		if in == nil || strings.TrimSpace(in.Path) == "" {
			return nil, fmt.Errorf("path is required")
		}
		docs, err := source.ExtractDocstrings(in.Path)
		if err != nil {
			if errors.Is(err, github.ErrNotFound) {
				return &DocstringsOutput{}, nil
			}
			return nil, err
		}
		return &DocstringsOutput{Docstrings: docs}, nil
	}

	readLocal := func(_ context.Context, in *LocalPathInput) (*TextOutput, error) {
		if in == nil || strings.TrimSpace(in.Path) == "" {
			return nil, fmt.Errorf("path is required")
		}
		content, err := source.ReadLocalFile(in.Path)
		if err != nil {
			return nil, err
		}
		return &TextOutput{Content: content}, nil
	}

	listLocal := func(_ context.Context, in *ListLocalFilesInput) (*ListLocalFilesOutput, error) {
		if in == nil || strings.TrimSpace(in.Root) == "" {
			return nil, fmt.Errorf("root is required")
		}
		files, err := source.ListLocalFiles(in.Root, in.Pattern)
		if err != nil {
			return nil, err
		}
		return &ListLocalFilesOutput{Files: files}, nil
	}

	var all []tool.BaseTool
	register := func(name string, build func() (tool.BaseTool, error)) error {
		t, err := build()
		if err != nil {
			return fmt.Errorf("infer tool %s: %w", name, err)
		}
		all = append(all, t)
		return nil
	}

	if err := register("search_code", func() (tool.BaseTool, error) {
		return utils.InferTool("search_code", ToolDescription("search_code"), searchCode)
	}); err != nil {
		return nil, err
	}
	if err := register("get_file_content", func() (tool.BaseTool, error) {
		return utils.InferTool("get_file_content", ToolDescription("get_file_content"), fileContent)
	}); err != nil {
		return nil, err
	}
	if err := register("get_commit_history", func() (tool.BaseTool, error) {
		return utils.InferTool("get_commit_history", ToolDescription("get_commit_history"), commitHistory)
	}); err != nil {
		return nil, err
	}
	if err := register("get_readme", func() (tool.BaseTool, error) {
		return utils.InferTool("get_readme", ToolDescription("get_readme"), readme)
	}); err != nil {
		return nil, err
	}
	if err := register("get_changelog", func() (tool.BaseTool, error) {
		return utils.InferTool("get_changelog", ToolDescription("get_changelog"), changelog)
	}); err != nil {
		return nil, err
	}
	if err := register("get_contributing", func() (tool.BaseTool, error) {
		return utils.InferTool("get_contributing", ToolDescription("get_contributing"), contributing)
	}); err != nil {
		return nil, err
	}
	if err := register("extract_docstrings", func() (tool.BaseTool, error) {
		return utils.InferTool("extract_docstrings", ToolDescription("extract_docstrings"), docstrings)
	}); err != nil {
		return nil, err
	}
	if err := register("read_local_file", func() (tool.BaseTool, error) {
		return utils.InferTool("read_local_file", ToolDescription("read_local_file"), readLocal)
	}); err != nil {
		return nil, err
	}
	if err := register("list_local_files", func() (tool.BaseTool, error) {
		return utils.InferTool("list_local_files", ToolDescription("list_local_files"), listLocal)
	}); err != nil {
		return nil, err
	}

	return all, nil
}
