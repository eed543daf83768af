package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"

	"docuforge/internal/events"
	"docuforge/internal/llm/client"
	"docuforge/internal/models"
)

// Collector drives the LLM-directed tool loop that assembles repository
// context. The loop's turn limit and tool-selection policy belong to the
// agent runtime; this component supplies the instruction, takes the final
// model answer, and strips the code fence.
type Collector struct {
	gateway client.Gateway
	tools   []tool.BaseTool
}

func NewCollector(gateway client.Gateway, tools []tool.BaseTool) *Collector {
	return &Collector{gateway: gateway, tools: tools}
}

// Collect returns the cleaned final answer of the tool loop. The text is not
// yet parsed; callers decide how to interpret it.
func (c *Collector) Collect(ctx context.Context, repo string) (string, error) {
	instruction := fmt.Sprintf("Prepare context for the repository `%s`.", repo)
	reply, err := c.gateway.RunToolLoop(ctx, prompt("collect_context"), instruction, c.tools)
	if err != nil {
		return "", &models.StageError{
			Stage:   StageCollectContext,
			Kind:    models.FailureUnknown,
			Message: err.Error(),
		}
	}
	return stripCodeFence(reply), nil
}

// collectStage runs the tool loop and parses its answer into the record's
// context bundle.
type collectStage struct {
	collector *Collector
}

func (s *collectStage) Name() string { return StageCollectContext }

func (s *collectStage) Run(ctx context.Context, rec *models.PipelineRecord) (*Patch, error) {
	cleaned, err := s.collector.Collect(ctx, rec.Repository)
	if err != nil {
		return nil, err
	}

	var bundle models.ContextBundle
	if err := json.Unmarshal([]byte(cleaned), &bundle); err != nil {
		return nil, &models.StageError{
			Stage:   StageCollectContext,
			Kind:    models.FailureParse,
			Message: "failed to parse context JSON: " + err.Error(),
			Raw:     cleaned,
		}
	}
	if !bundle.HasReadme() {
		// A thin bundle still proceeds; the draft just leans harder on the
		// code analysis.
		events.Emit(ctx, events.PipelineStage, events.NewWarn(StageCollectContext, "no README content collected for "+rec.Repository))
	}
	return &Patch{
		RawContext: strPtr(cleaned),
		Context:    &bundle,
	}, nil
}
