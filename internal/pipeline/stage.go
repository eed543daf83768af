package pipeline

import (
	"context"
	"errors"

	"docuforge/internal/models"
)

// Stage names, which are also the orchestration graph's node keys.
const (
	StageConnect        = "connect"
	StageExtractCode    = "extract_code"
	StageCollectContext = "collect_context"
	StageDraftGeneral   = "draft_general"
	StageDraftFunction  = "draft_function_api"
	StageValidate       = "validate"
	StageBundle         = "bundle"
	StageReport         = "report"
)

// Stage is one node of the orchestration graph: a pure function from the
// current record to a partial-field patch. A stage never mutates the record
// it receives; failures are returned as (or wrapped into) a StageError.
type Stage interface {
	Name() string
	Run(ctx context.Context, rec *models.PipelineRecord) (*Patch, error)
}

// Patch is the partial field set a stage hands back. Nil pointers mean
// "leave the field alone"; set fields are merged last-write-wins.
type Patch struct {
	Kind            *models.DocKind
	DefaultBranch   *string
	Language        *string
	CodeSample      *string
	CodeSampleFiles []string
	CodeElements    []models.CodeElement
	RawContext      *string
	Context         *models.ContextBundle
	Draft           *models.DraftDocumentation
	Validation      *models.ValidationOutcome
	Bundle          *models.BundleResult
	Report          *string
}

// Apply merges the patch into rec, last write wins per field.
func (p *Patch) Apply(rec *models.PipelineRecord) {
	if p == nil {
		return
	}
	if p.Kind != nil {
		rec.Kind = *p.Kind
	}
	if p.DefaultBranch != nil {
		rec.DefaultBranch = *p.DefaultBranch
	}
	if p.Language != nil {
		rec.Language = *p.Language
	}
	if p.CodeSample != nil {
		rec.CodeSample = *p.CodeSample
	}
	if p.CodeSampleFiles != nil {
		rec.CodeSampleFiles = p.CodeSampleFiles
	}
	if p.CodeElements != nil {
		rec.CodeElements = p.CodeElements
	}
	if p.RawContext != nil {
		rec.RawContext = *p.RawContext
	}
	if p.Context != nil {
		rec.Context = p.Context
	}
	if p.Draft != nil {
		rec.Draft = p.Draft
	}
	if p.Validation != nil {
		rec.Validation = p.Validation
	}
	if p.Bundle != nil {
		rec.Bundle = p.Bundle
	}
	if p.Report != nil {
		rec.Report = *p.Report
	}
}

// stageError wraps err into a StageError attributed to stage, preserving an
// existing StageError's failure kind.
func stageError(stage string, err error) *models.StageError {
	var se *models.StageError
	if errors.As(err, &se) {
		if se.Stage == "" {
			se.Stage = stage
		}
		return se
	}
	return &models.StageError{Stage: stage, Kind: models.FailureUnknown, Message: err.Error()}
}

func strPtr(s string) *string { return &s }
