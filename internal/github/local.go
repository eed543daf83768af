package github

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/yargevad/filepathx"
)

// ExtractDocstrings parses a local Go source file and collects the doc
// comments of the package, every top-level declaration, and every method.
func (c *Client) ExtractDocstrings(path string) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("extract docstrings %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("extract docstrings %s: %w", path, err)
	}

	var docs []string
	add := func(group *ast.CommentGroup) {
		if group == nil {
			return
		}
		text := strings.TrimSpace(group.Text())
		if text != "" {
			docs = append(docs, text)
		}
	}

	add(file.Doc)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			add(d.Doc)
		case *ast.GenDecl:
			add(d.Doc)
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					add(s.Doc)
				case *ast.ValueSpec:
					add(s.Doc)
				}
			}
		}
	}
	return docs, nil
}

// ReadLocalFile returns the contents of a file on the local filesystem.
func (c *Client) ReadLocalFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("read local file %s: %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("read local file %s: %w", path, err)
	}
	return string(data), nil
}

// ListLocalFiles expands a glob pattern (supporting **) under root and
// returns the matching file paths relative to root.
func (c *Client) ListLocalFiles(root, pattern string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root is required")
	}
	if strings.TrimSpace(pattern) == "" {
		pattern = "**/*"
	}
	matches, err := filepathx.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("list local files: %w", err)
	}
	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(root, match)
		if err != nil {
			continue
		}
		files = append(files, filepath.ToSlash(rel))
	}
	return files, nil
}

// localCommitHistory reads commit messages for path from a local clone,
// newest first.
func localCommitHistory(root, path string, limit int) ([]string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("open local repository %s: %w", root, err)
	}
	opts := &git.LogOptions{}
	if strings.TrimSpace(path) != "" {
		p := filepath.ToSlash(path)
		opts.FileName = &p
	}
	iter, err := repo.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("read local history: %w", err)
	}
	defer iter.Close()

	var history []string
	err = iter.ForEach(func(commit *object.Commit) error {
		history = append(history, strings.TrimSpace(commit.Message))
		if len(history) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read local history: %w", err)
	}
	return history, nil
}
