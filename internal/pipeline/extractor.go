package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"docuforge/internal/llm/client"
	"docuforge/internal/models"
)

// Extractor asks the LLM to pull the class/function structure out of a code
// sample. No retries: a malformed reply is terminal for the call.
type Extractor struct {
	gateway client.Gateway
}

func NewExtractor(gateway client.Gateway) *Extractor {
	return &Extractor{gateway: gateway}
}

// Extract returns the ordered code element list for the given code text.
func (e *Extractor) Extract(ctx context.Context, code string) ([]models.CodeElement, error) {
	if strings.TrimSpace(code) == "" {
		return nil, &models.StageError{
			Stage:   StageExtractCode,
			Kind:    models.FailureAccess,
			Message: "no code sample available",
		}
	}

	reply, err := e.gateway.Generate(ctx, prompt("extract_code"), code)
	if err != nil {
		return nil, &models.StageError{
			Stage:   StageExtractCode,
			Kind:    models.FailureUnknown,
			Message: err.Error(),
		}
	}

	cleaned := stripCodeFence(reply)
	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &models.StageError{
			Stage:   StageExtractCode,
			Kind:    models.FailureParse,
			Message: "failed to parse JSON response: " + err.Error(),
			Raw:     reply,
		}
	}
	if _, ok := probe.([]any); !ok {
		return nil, &models.StageError{
			Stage:   StageExtractCode,
			Kind:    models.FailureShape,
			Message: "the response is not a valid JSON array",
			Raw:     reply,
		}
	}

	var elements []models.CodeElement
	if err := json.Unmarshal([]byte(cleaned), &elements); err != nil {
		return nil, &models.StageError{
			Stage:   StageExtractCode,
			Kind:    models.FailureShape,
			Message: "array entries do not match the code element shape: " + err.Error(),
			Raw:     reply,
		}
	}
	return elements, nil
}

// extractStage adapts the Extractor to the graph's stage contract, reading
// the explicit code sample off the record.
type extractStage struct {
	extractor *Extractor
}

func (s *extractStage) Name() string { return StageExtractCode }

func (s *extractStage) Run(ctx context.Context, rec *models.PipelineRecord) (*Patch, error) {
	elements, err := s.extractor.Extract(ctx, rec.CodeSample)
	if err != nil {
		return nil, err
	}
	return &Patch{CodeElements: elements}, nil
}
