package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuforge/internal/models"
)

func validDraft() *models.DraftDocumentation {
	return &models.DraftDocumentation{
		Status:        models.DraftSuccess,
		Documentation: "# Widget\n\nDoes things.",
		CodeAnalysis:  []models.CodeElement{{Name: "Widget", Kind: "class"}},
	}
}

func TestValidator_ValidDraftIsReadyForBundling(t *testing.T) {
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, _, _ string) (string, error) {
			return `{"is_valid": true, "validation_score": 0.92}`, nil
		},
	}
	v := NewValidator(gw, NewDrafter(gw))

	outcome, err := v.ValidateAndProcess(context.Background(), models.DocKindGeneral, validDraft(), "", "")
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusValidated, outcome.Status)
	assert.True(t, outcome.ReadyForBundling)
	assert.InDelta(t, 0.92, outcome.Result.ValidationScore, 1e-9)
}

func TestValidator_FailureModeledAsInvalid(t *testing.T) {
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("timeout")
		},
	}

	result := NewValidator(gw, NewDrafter(gw)).Validate(context.Background(), "doc", nil, "")
	assert.False(t, result.IsValid)
	assert.Zero(t, result.ValidationScore)
	assert.Equal(t, []string{"Failed to perform validation"}, result.Issues)
	assert.Equal(t, "timeout", result.Error)
}

func TestValidator_InvalidDraftGetsExactlyOneImprovementCycle(t *testing.T) {
	var validations, improvements, drafts int
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, system, _ string) (string, error) {
			switch {
			case strings.Contains(system, "validation expert"):
				validations++
				if validations == 1 {
					return `{"is_valid": false, "validation_score": 0.3, "suggestions": ["add examples"]}`, nil
				}
				return `{"is_valid": true, "validation_score": 0.85}`, nil
			case strings.Contains(system, "improvement expert"):
				improvements++
				return "Add usage examples to every section.", nil
			case strings.Contains(system, "documentation expert"):
				drafts++
				assert.Contains(t, system, "Add usage examples to every section.")
				return "# Widget v2", nil
			}
			return "", errors.New("unexpected prompt")
		},
	}
	v := NewValidator(gw, NewDrafter(gw))

	outcome, err := v.ValidateAndProcess(context.Background(), models.DocKindGeneral, validDraft(), "", "")
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusUpdated, outcome.Status)
	assert.Equal(t, "# Widget v2", outcome.Documentation)
	assert.Equal(t, "Add usage examples to every section.", outcome.Improvements)
	assert.Equal(t, 2, validations)
	assert.Equal(t, 1, improvements)
	assert.Equal(t, 1, drafts)
	// Exactly one retry, even though the improved draft could fail again.
	assert.False(t, outcome.ReadyForBundling)
}

func TestValidator_ExplicitFeedbackForcesCycleEvenWhenValid(t *testing.T) {
	var improveSeen string
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, system, user string) (string, error) {
			switch {
			case strings.Contains(system, "validation expert"):
				return `{"is_valid": true, "validation_score": 0.9}`, nil
			case strings.Contains(system, "improvement expert"):
				improveSeen = user
				return "Mention the install step.", nil
			case strings.Contains(system, "documentation expert"):
				return "# Widget with install", nil
			}
			return "", errors.New("unexpected prompt")
		},
	}
	v := NewValidator(gw, NewDrafter(gw))

	outcome, err := v.ValidateAndProcess(context.Background(), models.DocKindGeneral, validDraft(), "", "please document installation")
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusUpdated, outcome.Status)
	assert.Contains(t, improveSeen, "please document installation")
}
