package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"docuforge/internal/llm/client"
	"docuforge/internal/models"
	"docuforge/internal/utils"
)

const bundleTimestampLayout = "2006-01-02_15-04-05"

// Bundler splits one documentation blob into per-function and per-class
// files under a fresh timestamped directory and, unless the caller asked to
// wait for confirmation, zips the tree.
type Bundler struct {
	gateway    client.Gateway
	outputRoot string
	now        func() time.Time
}

func NewBundler(gateway client.Gateway, outputRoot string) *Bundler {
	return &Bundler{gateway: gateway, outputRoot: outputRoot, now: time.Now}
}

// splitDocumentation asks the model to carve the blob into discrete entries.
// A failed split is not fatal: it comes back empty with the error embedded,
// and the bundler produces a valid (if empty) directory tree.
func (b *Bundler) splitDocumentation(ctx context.Context, documentation string) *models.DocSplit {
	reply, err := b.gateway.Generate(ctx, prompt("split"), documentation)
	if err != nil {
		return &models.DocSplit{Error: err.Error()}
	}
	var split models.DocSplit
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &split); err != nil {
		return &models.DocSplit{Error: "failed to parse split response: " + err.Error()}
	}
	return &split
}

// Bundle writes the draft's documentation out as files. With
// waitForConfirmation=false the tree is archived immediately and the result
// carries status "bundled"; otherwise the tree stays unarchived with status
// "generated" until Archive is called.
func (b *Bundler) Bundle(ctx context.Context, draft *models.DraftDocumentation, waitForConfirmation bool) (*models.BundleResult, error) {
	if draft == nil || draft.Status != models.DraftSuccess {
		return nil, &models.StageError{
			Stage:   StageBundle,
			Kind:    models.FailureUnknown,
			Message: "no successful draft to bundle",
		}
	}

	baseDir := filepath.Join(b.outputRoot, b.now().Format(bundleTimestampLayout))
	for _, sub := range []string{"functions", "classes"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, writeError(err)
		}
	}

	split := b.splitDocumentation(ctx, draft.Documentation)

	var generated []string
	write := func(subdir string, entry models.SplitEntry) error {
		name := utils.SanitizeFileName(entry.FileName)
		if name == "" {
			name = utils.SanitizeFileName(entry.Name)
		}
		path := filepath.Join(baseDir, subdir, name+".md")
		if err := os.WriteFile(path, []byte(entry.Content), 0o644); err != nil {
			return err
		}
		generated = append(generated, path)
		return nil
	}
	for _, entry := range split.Functions {
		if err := write("functions", entry); err != nil {
			return nil, writeError(err)
		}
	}
	for _, entry := range split.Classes {
		if err := write("classes", entry); err != nil {
			return nil, writeError(err)
		}
	}

	result := &models.BundleResult{
		Status:         models.BundleGenerated,
		BaseDirectory:  baseDir,
		GeneratedFiles: generated,
		Message:        fmt.Sprintf("Generated %d documentation files", len(generated)),
		Error:          split.Error,
	}
	if waitForConfirmation {
		return result, nil
	}
	return b.Archive(result)
}

// Archive zips a generated bundle's directory tree. The zip sits next to the
// directory under the same timestamped name.
func (b *Bundler) Archive(result *models.BundleResult) (*models.BundleResult, error) {
	if result == nil || result.BaseDirectory == "" {
		return nil, &models.StageError{
			Stage:   StageBundle,
			Kind:    models.FailureUnknown,
			Message: "nothing to archive",
		}
	}
	zipPath := result.BaseDirectory + ".zip"
	if err := utils.ZipDirectory(result.BaseDirectory, zipPath); err != nil {
		return nil, writeError(err)
	}
	archived := *result
	archived.Status = models.BundleBundled
	archived.ArchivePath = zipPath
	archived.Message = fmt.Sprintf("Documentation bundled in %s", zipPath)
	return &archived, nil
}

func writeError(err error) *models.StageError {
	return &models.StageError{
		Stage:   StageBundle,
		Kind:    models.FailureWrite,
		Message: err.Error(),
	}
}

// bundleStage adapts the Bundler to the graph. Runs always archive
// immediately; the confirmation path exists for interactive callers.
type bundleStage struct {
	bundler *Bundler
}

func (s *bundleStage) Name() string { return StageBundle }

func (s *bundleStage) Run(ctx context.Context, rec *models.PipelineRecord) (*Patch, error) {
	draft := rec.Draft
	if rec.Validation != nil && rec.Validation.Status == models.ValidationStatusUpdated {
		// Bundle the improved text, not the original draft.
		updated := *draft
		updated.Documentation = rec.Validation.Documentation
		draft = &updated
	}
	result, err := s.bundler.Bundle(ctx, draft, false)
	if err != nil {
		return nil, err
	}
	return &Patch{Bundle: result}, nil
}
