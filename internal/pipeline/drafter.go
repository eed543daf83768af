package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"docuforge/internal/llm/client"
	"docuforge/internal/models"
)

const draftFailureDetails = "Failed to generate documentation"

// Drafter turns code structure plus repository context into markdown
// documentation. The two variants share the same shape and differ only in
// the prompt they are driven by.
type Drafter struct {
	gateway client.Gateway
}

func NewDrafter(gateway client.Gateway) *Drafter {
	return &Drafter{gateway: gateway}
}

type draftInput struct {
	CodeAnalysis      []models.CodeElement  `json:"code_analysis"`
	RepositoryContext *models.ContextBundle `json:"repository_context"`
}

// Draft produces a DraftDocumentation for the requested kind. Improvements,
// when non-empty, are appended to the prompt as explicit extra instructions
// so a regenerated draft visibly consumes the feedback summary. Failures
// come back as an error-status draft, never as a partial result.
func (d *Drafter) Draft(ctx context.Context, kind models.DocKind, elements []models.CodeElement, bundle *models.ContextBundle, improvements string) (*models.DraftDocumentation, error) {
	system := prompt("draft_general")
	if kind == models.DocKindFunctionAPI {
		system = prompt("draft_function_api")
	}
	if improvements != "" {
		system += "\n\nApply the following improvements to this draft:\n" + improvements
	}

	combined, err := json.MarshalIndent(draftInput{
		CodeAnalysis:      elements,
		RepositoryContext: bundle,
	}, "", "  ")
	if err != nil {
		return errorDraft(err), stageError(stageForKind(kind), err)
	}

	reply, err := d.gateway.Generate(ctx, system, string(combined))
	if err != nil {
		return errorDraft(err), &models.StageError{
			Stage:   stageForKind(kind),
			Kind:    models.FailureUnknown,
			Message: err.Error(),
		}
	}

	return &models.DraftDocumentation{
		Status:        models.DraftSuccess,
		Documentation: reply,
		CodeAnalysis:  elements,
		ContextData:   bundle,
	}, nil
}

func errorDraft(err error) *models.DraftDocumentation {
	return &models.DraftDocumentation{
		Status:  models.DraftError,
		Error:   err.Error(),
		Details: draftFailureDetails,
	}
}

func stageForKind(kind models.DocKind) string {
	if kind == models.DocKindFunctionAPI {
		return StageDraftFunction
	}
	return StageDraftGeneral
}

// draftStage adapts the Drafter to the graph. One instance exists per
// variant; both are behaviorally identical beyond the prompt.
type draftStage struct {
	drafter *Drafter
	kind    models.DocKind
}

func (s *draftStage) Name() string { return stageForKind(s.kind) }

func (s *draftStage) Run(ctx context.Context, rec *models.PipelineRecord) (*Patch, error) {
	draft, err := s.drafter.Draft(ctx, s.kind, rec.CodeElements, rec.Context, "")
	if err != nil {
		// The error-status draft still lands on the record so the report
		// stage can echo its details.
		return &Patch{Draft: draft}, err
	}
	if draft == nil || draft.Status != models.DraftSuccess {
		return &Patch{Draft: draft}, fmt.Errorf("drafting produced no documentation")
	}
	return &Patch{Draft: draft}, nil
}
