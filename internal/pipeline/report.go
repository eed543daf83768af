package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docuforge/internal/events"
	"docuforge/internal/models"
)

// RunRecorder persists the final outcome of a run. The report stage treats
// persistence as best-effort: a storage failure never masks the run result.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *models.Run) error
}

// reportStage renders the final user-facing summary and persists the run.
// It is the graph's one unconditional node: it runs whether or not an
// earlier stage failed, and it never fails itself.
type reportStage struct {
	recorder RunRecorder
}

func (s *reportStage) Name() string { return StageReport }

func (s *reportStage) Run(ctx context.Context, rec *models.PipelineRecord) (*Patch, error) {
	report := renderReport(rec)
	if s.recorder != nil {
		// Best effort. The report is already rendered; losing the row is
		// an operational nuisance, not a run failure.
		if err := s.recorder.SaveRun(ctx, runRow(rec)); err != nil {
			events.Emit(ctx, events.PipelineStage, events.NewWarn(StageReport, "failed to persist run: "+err.Error()))
		}
	}
	events.Emit(ctx, events.PipelineReport, events.NewInfo(StageReport, report))
	return &Patch{Report: strPtr(report)}, nil
}

// renderReport builds the markdown summary. The validation and bundle
// sections always render, even when the run failed before reaching them.
func renderReport(rec *models.PipelineRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Documentation run for `%s`\n\n", rec.Repository)
	fmt.Fprintf(&b, "- Kind: %s\n", rec.Kind)
	if rec.DefaultBranch != "" {
		fmt.Fprintf(&b, "- Branch: %s\n", rec.DefaultBranch)
	}
	if rec.Language != "" {
		fmt.Fprintf(&b, "- Language: %s\n", rec.Language)
	}

	if rec.Err != nil {
		fmt.Fprintf(&b, "\n**Error** (%s, %s): %s\n", rec.Err.Stage, rec.Err.Kind, rec.Err.Message)
	}

	b.WriteString("\n### Validation\n\n")
	if rec.Validation != nil && rec.Validation.Result != nil {
		res := rec.Validation.Result
		fmt.Fprintf(&b, "- Status: %s\n", rec.Validation.Status)
		fmt.Fprintf(&b, "- Score: %.2f\n", res.ValidationScore)
		for _, issue := range res.Issues {
			fmt.Fprintf(&b, "- Issue: %s\n", issue)
		}
	} else {
		b.WriteString("No validation result.\n")
	}

	b.WriteString("\n### Bundle\n\n")
	if rec.Bundle != nil {
		fmt.Fprintf(&b, "- Status: %s\n", rec.Bundle.Status)
		fmt.Fprintf(&b, "- Files: %d\n", len(rec.Bundle.GeneratedFiles))
		if rec.Bundle.ArchivePath != "" {
			fmt.Fprintf(&b, "- Archive: %s\n", rec.Bundle.ArchivePath)
		}
		if rec.Bundle.Message != "" {
			fmt.Fprintf(&b, "\n%s\n", rec.Bundle.Message)
		}
	} else {
		b.WriteString("No bundle produced.\n")
	}

	return b.String()
}

// runRow flattens the record into its persisted form.
func runRow(rec *models.PipelineRecord) *models.Run {
	run := &models.Run{
		RunKey:      rec.RunID,
		Repository:  rec.Repository,
		Kind:        string(rec.Kind),
		UserMessage: rec.UserMessage,
		CreatedAt:   time.Now(),
	}
	if rec.Draft != nil {
		run.DraftStatus = string(rec.Draft.Status)
	}
	if rec.Validation != nil {
		run.ValidationState = string(rec.Validation.Status)
		if rec.Validation.Result != nil {
			run.ValidationScore = rec.Validation.Result.ValidationScore
		}
	}
	if rec.Bundle != nil {
		run.BundleStatus = string(rec.Bundle.Status)
		run.BundleDirectory = rec.Bundle.BaseDirectory
		run.ArchivePath = rec.Bundle.ArchivePath
	}
	if rec.Err != nil {
		run.ErrorText = rec.Err.Error()
	}
	return run
}
