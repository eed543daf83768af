package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	"docuforge/internal/events"
	"docuforge/internal/github"
	"docuforge/internal/llm/client"
	"docuforge/internal/models"
)

// ErrUsage marks a request the pipeline could not interpret. Callers show
// the message to the user instead of starting a run.
var ErrUsage = errors.New("please name a repository as owner/name, e.g. \"Generate documentation for acme/widget\"")

var repoPattern = regexp.MustCompile(`[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+`)

// functionKeywords route a request to the function/API drafting variant.
var functionKeywords = []string{"function", "api", "func"}

// ParseRequest extracts the repository and documentation kind from a free
// text request. It never touches a record: parsing happens before a run
// exists, and a rejected message leaves no trace.
func ParseRequest(message string) (string, models.DocKind, error) {
	repo := repoPattern.FindString(message)
	if repo == "" {
		return "", "", ErrUsage
	}
	lower := strings.ToLower(message)
	for _, kw := range functionKeywords {
		if strings.Contains(lower, kw) {
			return repo, models.DocKindFunctionAPI, nil
		}
	}
	return repo, models.DocKindGeneral, nil
}

// Config wires the pipeline's collaborators together.
type Config struct {
	Source     github.Source
	Gateway    client.Gateway
	Tools      []tool.BaseTool
	OutputRoot string
	// Recorder is optional; without it runs are simply not persisted.
	Recorder RunRecorder
	// Feedback is optional explicit user feedback applied during validation.
	Feedback string
}

// Pipeline is one compiled documentation pipeline. Safe for sequential use;
// a single run owns its record exclusively from start to finish.
type Pipeline struct {
	runnable compose.Runnable[*models.PipelineRecord, *models.PipelineRecord]
}

// New compiles the orchestration graph. Every fallible node is followed by
// a branch that jumps straight to the report node once an error has landed
// on the record, so a failed stage never feeds empty inputs downstream.
func New(ctx context.Context, cfg Config) (*Pipeline, error) {
	drafter := NewDrafter(cfg.Gateway)
	stages := map[string]Stage{
		StageConnect:        &connectStage{source: cfg.Source},
		StageExtractCode:    &extractStage{extractor: NewExtractor(cfg.Gateway)},
		StageCollectContext: &collectStage{collector: NewCollector(cfg.Gateway, cfg.Tools)},
		StageDraftGeneral:   &draftStage{drafter: drafter, kind: models.DocKindGeneral},
		StageDraftFunction:  &draftStage{drafter: drafter, kind: models.DocKindFunctionAPI},
		StageValidate:       &validateStage{validator: NewValidator(cfg.Gateway, drafter), userFeedback: cfg.Feedback},
		StageBundle:         &bundleStage{bundler: NewBundler(cfg.Gateway, cfg.OutputRoot)},
		StageReport:         &reportStage{recorder: cfg.Recorder},
	}

	g := compose.NewGraph[*models.PipelineRecord, *models.PipelineRecord]()
	for name, stage := range stages {
		if err := g.AddLambdaNode(name, compose.InvokableLambda(runStage(stage))); err != nil {
			return nil, fmt.Errorf("failed to add node %s: %w", name, err)
		}
	}

	if err := g.AddEdge(compose.START, StageConnect); err != nil {
		return nil, err
	}
	if err := g.AddBranch(StageConnect, errorBranch(StageExtractCode)); err != nil {
		return nil, err
	}
	if err := g.AddBranch(StageExtractCode, errorBranch(StageCollectContext)); err != nil {
		return nil, err
	}
	if err := g.AddBranch(StageCollectContext, draftBranch()); err != nil {
		return nil, err
	}
	if err := g.AddBranch(StageDraftGeneral, errorBranch(StageValidate)); err != nil {
		return nil, err
	}
	if err := g.AddBranch(StageDraftFunction, errorBranch(StageValidate)); err != nil {
		return nil, err
	}
	if err := g.AddBranch(StageValidate, errorBranch(StageBundle)); err != nil {
		return nil, err
	}
	if err := g.AddEdge(StageBundle, StageReport); err != nil {
		return nil, err
	}
	if err := g.AddEdge(StageReport, compose.END); err != nil {
		return nil, err
	}

	runnable, err := g.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pipeline graph: %w", err)
	}
	return &Pipeline{runnable: runnable}, nil
}

// runStage wraps a stage as a graph lambda. Stage failures are converted
// into the record's error field so the graph itself never fails; the
// branches decide where the error routes control.
func runStage(stage Stage) func(context.Context, *models.PipelineRecord) (*models.PipelineRecord, error) {
	return func(ctx context.Context, rec *models.PipelineRecord) (*models.PipelineRecord, error) {
		if rec.Err != nil && stage.Name() != StageReport {
			// An upstream error is already being routed to report; nothing
			// to do here.
			return rec, nil
		}

		events.Emit(ctx, events.PipelineStage, events.NewInfo(stage.Name(), fmt.Sprintf("Running %s...", stage.Name())))
		patch, err := stage.Run(ctx, rec)
		patch.Apply(rec)
		if err != nil {
			rec.Err = stageError(stage.Name(), err)
			events.Emit(ctx, events.PipelineStage, events.NewError(stage.Name(), rec.Err.Message))
			return rec, nil
		}
		events.Emit(ctx, events.PipelineStage, events.NewSuccess(stage.Name(), fmt.Sprintf("Completed %s", stage.Name())))
		return rec, nil
	}
}

// errorBranch routes to next normally and to report once the record carries
// an error.
func errorBranch(next string) *compose.GraphBranch {
	cond := func(_ context.Context, rec *models.PipelineRecord) (string, error) {
		if rec.Err != nil {
			return StageReport, nil
		}
		return next, nil
	}
	return compose.NewGraphBranch(cond, map[string]bool{next: true, StageReport: true})
}

// draftBranch is the one data-dependent branch: it selects the drafting
// variant from the requested kind, with the usual error short-circuit.
func draftBranch() *compose.GraphBranch {
	cond := func(_ context.Context, rec *models.PipelineRecord) (string, error) {
		if rec.Err != nil {
			return StageReport, nil
		}
		if rec.Kind == models.DocKindFunctionAPI {
			return StageDraftFunction, nil
		}
		return StageDraftGeneral, nil
	}
	return compose.NewGraphBranch(cond, map[string]bool{
		StageDraftGeneral:  true,
		StageDraftFunction: true,
		StageReport:        true,
	})
}

// Run parses the request, executes the full graph, and returns the final
// record. The returned record is complete even when a stage failed; the
// failure sits in rec.Err and is echoed in rec.Report.
func (p *Pipeline) Run(ctx context.Context, message string) (*models.PipelineRecord, error) {
	repo, kind, err := ParseRequest(message)
	if err != nil {
		return nil, err
	}

	rec := &models.PipelineRecord{
		RunID:       uuid.NewString(),
		UserMessage: message,
		Repository:  repo,
		Kind:        kind,
	}

	out, err := p.runnable.Invoke(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}
	return out, nil
}
