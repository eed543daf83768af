package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"docuforge/internal/github"
	"docuforge/internal/models"
)

const (
	maxSampleFiles = 3
	maxSampleBytes = 48 * 1024
)

// sourceExtensions are the file extensions the connect stage treats as code
// when picking a representative sample.
var sourceExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true, ".jsx": true,
	".tsx": true, ".java": true, ".rb": true, ".rs": true, ".c": true,
	".h": true, ".cc": true, ".cpp": true, ".cs": true, ".php": true,
	".kt": true, ".swift": true, ".scala": true, ".sh": true,
}

// entryPointNames get priority when several source files are candidates.
var entryPointNames = map[string]bool{
	"main": true, "index": true, "app": true, "cli": true, "server": true,
}

// connectStage resolves the repository and fetches an explicit code sample
// onto the record, so the extractor has a declared input instead of relying
// on a side channel.
type connectStage struct {
	source github.Source
}

func (s *connectStage) Name() string { return StageConnect }

func (s *connectStage) Run(ctx context.Context, rec *models.PipelineRecord) (*Patch, error) {
	info, err := s.source.GetRepository(ctx, rec.Repository)
	if err != nil {
		return nil, accessError(StageConnect, err)
	}

	paths, err := s.source.ListTree(ctx, rec.Repository, info.DefaultBranch)
	if err != nil {
		return nil, accessError(StageConnect, err)
	}
	candidates := pickSampleFiles(paths, maxSampleFiles)
	if len(candidates) == 0 {
		return nil, &models.StageError{
			Stage:   StageConnect,
			Kind:    models.FailureAccess,
			Message: fmt.Sprintf("no source files found in %s", rec.Repository),
		}
	}

	var sample strings.Builder
	var sampled []string
	for _, p := range candidates {
		content, err := s.source.GetFileContent(ctx, rec.Repository, p)
		if err != nil {
			if errors.Is(err, github.ErrNotFound) {
				continue
			}
			return nil, accessError(StageConnect, err)
		}
		if sample.Len() > 0 {
			sample.WriteString("\n\n")
		}
		fmt.Fprintf(&sample, "// file: %s\n%s", p, content)
		sampled = append(sampled, p)
		if sample.Len() >= maxSampleBytes {
			break
		}
	}
	if sample.Len() == 0 {
		return nil, &models.StageError{
			Stage:   StageConnect,
			Kind:    models.FailureAccess,
			Message: fmt.Sprintf("could not read any source file from %s", rec.Repository),
		}
	}

	text := truncateToRuneBoundary(sample.String(), maxSampleBytes)
	return &Patch{
		DefaultBranch:   strPtr(info.DefaultBranch),
		Language:        strPtr(info.Language),
		CodeSample:      strPtr(text),
		CodeSampleFiles: sampled,
	}, nil
}

// pickSampleFiles selects up to limit source paths, preferring shallow
// entry-point files, deterministically.
func pickSampleFiles(paths []string, limit int) []string {
	type scored struct {
		path  string
		score int
	}
	var candidates []scored
	for _, p := range paths {
		ext := strings.ToLower(path.Ext(p))
		if !sourceExtensions[ext] {
			continue
		}
		base := strings.TrimSuffix(path.Base(p), ext)
		score := strings.Count(p, "/") * 10
		if entryPointNames[strings.ToLower(base)] {
			score -= 100
		}
		if strings.Contains(p, "test") || strings.Contains(p, "vendor/") {
			score += 1000
		}
		candidates = append(candidates, scored{path: p, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score < candidates[j].score
		}
		return candidates[i].path < candidates[j].path
	})
	var out []string
	for _, c := range candidates {
		out = append(out, c.path)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// truncateToRuneBoundary caps s at max bytes without splitting a multi-byte
// rune, so the truncated sample stays valid UTF-8.
func truncateToRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// accessError classifies any data-source failure: the upstream was
// unreachable or the target does not exist.
func accessError(stage string, err error) *models.StageError {
	return &models.StageError{Stage: stage, Kind: models.FailureAccess, Message: err.Error()}
}
