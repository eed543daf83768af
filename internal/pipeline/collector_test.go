package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuforge/internal/events"
	"docuforge/internal/models"
)

func collectWith(t *testing.T, reply string) (*Patch, error) {
	t.Helper()
	gw := &fakeGateway{
		RunToolLoopFunc: func(context.Context, string, string, []tool.BaseTool) (string, error) {
			return reply, nil
		},
	}
	stage := &collectStage{collector: NewCollector(gw, nil)}
	return stage.Run(context.Background(), &models.PipelineRecord{Repository: "acme/widget"})
}

func TestCollectStage_ParsesBundle(t *testing.T) {
	patch, err := collectWith(t, "```json\n{\"readme\": \"# Widget\", \"changelog\": \"Null\"}\n```")
	require.NoError(t, err)
	require.NotNil(t, patch.Context)
	assert.Equal(t, "# Widget", patch.Context.Readme)
	assert.True(t, patch.Context.HasReadme())
}

func TestCollectStage_WarnsWhenReadmeMissing(t *testing.T) {
	var warns []events.Event
	events.SetCustomEmitter(func(_ context.Context, _ string, evt events.Event) {
		if evt.Type == events.EventWarn {
			warns = append(warns, evt)
		}
	})
	defer events.SetCustomEmitter(nil)

	patch, err := collectWith(t, `{"readme": "Null", "changelog": "Null"}`)
	require.NoError(t, err)
	assert.False(t, patch.Context.HasReadme())

	require.Len(t, warns, 1)
	assert.Equal(t, StageCollectContext, warns[0].Stage)
	assert.Contains(t, warns[0].Message, "acme/widget")
}

func TestCollectStage_UnparsableAnswerIsParseFailure(t *testing.T) {
	_, err := collectWith(t, "I could not gather any context.")

	var se *models.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageCollectContext, se.Stage)
	assert.Equal(t, models.FailureParse, se.Kind)
	assert.Equal(t, "I could not gather any context.", se.Raw)
}
