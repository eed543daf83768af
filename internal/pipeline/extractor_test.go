package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuforge/internal/models"
)

func TestExtractor_ValidArray(t *testing.T) {
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, _, _ string) (string, error) {
			return "```json\n[{\"programming_language\":\"Go\",\"name\":\"Parse\",\"type\":\"function\"}]\n```", nil
		},
	}

	elements, err := NewExtractor(gw).Extract(context.Background(), "func Parse() {}")
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, "Parse", elements[0].Name)
	assert.Equal(t, "function", elements[0].Kind)
	assert.Equal(t, "Go", elements[0].Language)
}

func TestExtractor_EmptyInput(t *testing.T) {
	_, err := NewExtractor(&fakeGateway{}).Extract(context.Background(), "   ")

	var se *models.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.FailureAccess, se.Kind)
	assert.Equal(t, StageExtractCode, se.Stage)
}

func TestExtractor_InvalidJSON(t *testing.T) {
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, _, _ string) (string, error) {
			return "sorry, I cannot do that", nil
		},
	}

	_, err := NewExtractor(gw).Extract(context.Background(), "code")

	var se *models.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.FailureParse, se.Kind)
	assert.Equal(t, "sorry, I cannot do that", se.Raw)
}

func TestExtractor_JSONButNotArray(t *testing.T) {
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, _, _ string) (string, error) {
			return `{"name": "Parse"}`, nil
		},
	}

	_, err := NewExtractor(gw).Extract(context.Background(), "code")

	var se *models.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.FailureShape, se.Kind)
}

func TestExtractor_GatewayFailure(t *testing.T) {
	gw := &fakeGateway{
		GenerateFunc: func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("connection reset")
		},
	}

	_, err := NewExtractor(gw).Extract(context.Background(), "code")

	var se *models.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.FailureUnknown, se.Kind)
}
