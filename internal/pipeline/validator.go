package pipeline

import (
	"context"
	"encoding/json"

	"docuforge/internal/llm/client"
	"docuforge/internal/models"
)

const validationFailureIssue = "Failed to perform validation"

// Validator scores a draft against the extracted code structure and runs
// the single improvement cycle when the draft is invalid or the user gave
// explicit feedback.
type Validator struct {
	gateway client.Gateway
	drafter *Drafter
}

func NewValidator(gateway client.Gateway, drafter *Drafter) *Validator {
	return &Validator{gateway: gateway, drafter: drafter}
}

type validationInput struct {
	Documentation    string               `json:"documentation"`
	CodeAnalysis     []models.CodeElement `json:"code_analysis"`
	UserRequirements string               `json:"user_requirements,omitempty"`
}

// Validate runs one validation exchange. It never returns an error: a
// validator failure is modeled as an invalid result with score 0.
func (v *Validator) Validate(ctx context.Context, documentation string, elements []models.CodeElement, userRequirements string) *models.ValidationResult {
	input, err := json.MarshalIndent(validationInput{
		Documentation:    documentation,
		CodeAnalysis:     elements,
		UserRequirements: userRequirements,
	}, "", "  ")
	if err != nil {
		return failedValidation(err)
	}

	reply, err := v.gateway.Generate(ctx, prompt("validate"), string(input))
	if err != nil {
		return failedValidation(err)
	}

	var result models.ValidationResult
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &result); err != nil {
		return failedValidation(err)
	}
	return &result
}

func failedValidation(err error) *models.ValidationResult {
	return &models.ValidationResult{
		IsValid:         false,
		ValidationScore: 0,
		Issues:          []string{validationFailureIssue},
		Error:           err.Error(),
	}
}

type improvementInput struct {
	OriginalDocumentation *models.DraftDocumentation `json:"original_documentation"`
	UserFeedback          string                     `json:"user_feedback"`
}

// FeedbackResult is the outcome of one improvement cycle.
type FeedbackResult struct {
	Draft        *models.DraftDocumentation
	Result       *models.ValidationResult
	Improvements string
}

// ProcessFeedback summarizes the feedback into concrete improvements,
// regenerates the documentation with those improvements as explicit drafter
// input, and re-validates the new draft.
func (v *Validator) ProcessFeedback(ctx context.Context, kind models.DocKind, original *models.DraftDocumentation, feedback string) (*FeedbackResult, error) {
	input, err := json.MarshalIndent(improvementInput{
		OriginalDocumentation: original,
		UserFeedback:          feedback,
	}, "", "  ")
	if err != nil {
		return nil, stageError(StageValidate, err)
	}

	improvements, err := v.gateway.Generate(ctx, prompt("improve"), string(input))
	if err != nil {
		return nil, &models.StageError{
			Stage:   StageValidate,
			Kind:    models.FailureUnknown,
			Message: err.Error(),
		}
	}

	var elements []models.CodeElement
	var bundle *models.ContextBundle
	if original != nil {
		elements = original.CodeAnalysis
		bundle = original.ContextData
	}
	draft, err := v.drafter.Draft(ctx, kind, elements, bundle, improvements)
	if err != nil {
		return nil, err
	}

	result := v.Validate(ctx, draft.Documentation, elements, "")
	return &FeedbackResult{
		Draft:        draft,
		Result:       result,
		Improvements: improvements,
	}, nil
}

// ValidateAndProcess is the top-level validation policy: validate once; on
// an invalid result or explicit feedback run exactly one improvement cycle
// (never a loop); otherwise mark the draft ready for bundling.
func (v *Validator) ValidateAndProcess(ctx context.Context, kind models.DocKind, draft *models.DraftDocumentation, userPrompt, userFeedback string) (*models.ValidationOutcome, error) {
	documentation := ""
	var elements []models.CodeElement
	if draft != nil {
		documentation = draft.Documentation
		elements = draft.CodeAnalysis
	}

	result := v.Validate(ctx, documentation, elements, userPrompt)
	if result.IsValid && userFeedback == "" {
		return &models.ValidationOutcome{
			Status:           models.ValidationStatusValidated,
			Documentation:    documentation,
			Result:           result,
			ReadyForBundling: true,
		}, nil
	}

	feedback := userFeedback
	if feedback == "" {
		// Fall back to the validator's own suggestions as the feedback
		// surrogate.
		encoded, err := json.Marshal(result.Suggestions)
		if err == nil {
			feedback = string(encoded)
		}
	}

	improved, err := v.ProcessFeedback(ctx, kind, draft, feedback)
	if err != nil {
		return nil, err
	}
	return &models.ValidationOutcome{
		Status:        models.ValidationStatusUpdated,
		Documentation: improved.Draft.Documentation,
		Result:        improved.Result,
		Improvements:  improved.Improvements,
	}, nil
}

// validateStage adapts the Validator to the graph.
type validateStage struct {
	validator *Validator
	// userFeedback carries explicit feedback supplied with the run request.
	userFeedback string
}

func (s *validateStage) Name() string { return StageValidate }

func (s *validateStage) Run(ctx context.Context, rec *models.PipelineRecord) (*Patch, error) {
	outcome, err := s.validator.ValidateAndProcess(ctx, rec.Kind, rec.Draft, rec.UserMessage, s.userFeedback)
	if err != nil {
		return nil, err
	}
	return &Patch{Validation: outcome}, nil
}
