package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const (
	defaultMaxToolSteps = 40
	defaultClaudeTokens = 8192

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Gateway is the LLM surface the pipeline consumes: a single structured
// exchange, or a multi-turn tool-use loop that ends with the model's final
// answer.
type Gateway interface {
	Generate(ctx context.Context, system, user string) (string, error)
	RunToolLoop(ctx context.Context, system, user string, tools []tool.BaseTool) (string, error)
}

// Options selects and configures a provider.
type Options struct {
	Provider string
	Model    string
	APIKey   string
	MaxSteps int
}

// Client binds one chat model from a supported provider and implements
// Gateway on top of it.
type Client struct {
	chatModel model.ToolCallingChatModel
	provider  string
	modelName string
	maxSteps  int
}

// New instantiates the provider named in opts. The provider set mirrors the
// model registry: openai, anthropic, gemini.
func New(ctx context.Context, opts Options) (*Client, error) {
	provider := strings.TrimSpace(opts.Provider)
	modelName := strings.TrimSpace(opts.Model)
	if provider == "" || modelName == "" {
		return nil, fmt.Errorf("provider and model are required")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key for %s is not configured", provider)
	}

	var (
		chatModel model.ToolCallingChatModel
		createErr error
	)
	switch provider {
	case ProviderOpenAI:
		chatModel, createErr = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey: opts.APIKey,
			Model:  modelName,
		})
	case ProviderAnthropic:
		chatModel, createErr = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    opts.APIKey,
			Model:     modelName,
			MaxTokens: defaultClaudeTokens,
		})
	case ProviderGemini:
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  opts.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		chatModel, createErr = gemini.NewChatModel(ctx, &gemini.Config{
			Client: genaiClient,
			Model:  modelName,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if createErr != nil {
		return nil, fmt.Errorf("failed to create %s chat model: %w", provider, createErr)
	}

	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxToolSteps
	}
	return &Client{
		chatModel: chatModel,
		provider:  provider,
		modelName: modelName,
		maxSteps:  maxSteps,
	}, nil
}

// Provider returns the provider identifier this client was built for.
func (c *Client) Provider() string { return c.provider }

// Model returns the configured model name.
func (c *Client) Model() string { return c.modelName }

// Generate sends one system+user exchange and returns the model's text.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	msg, err := c.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	})
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}
	return msg.Content, nil
}

// RunToolLoop drives a ReAct agent over the supplied tools until the model
// produces its final answer. The returned text is the content of the last
// model-authored message, not a fixed transcript position.
func (c *Client) RunToolLoop(ctx context.Context, system, user string, tools []tool.BaseTool) (string, error) {
	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: c.chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
		MessageModifier: func(_ context.Context, input []*schema.Message) []*schema.Message {
			res := make([]*schema.Message, 0, len(input)+1)
			res = append(res, schema.SystemMessage(system))
			res = append(res, input...)
			return res
		},
		MaxStep: c.maxSteps,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create react agent: %w", err)
	}

	final, err := agent.Generate(ctx, []*schema.Message{schema.UserMessage(user)})
	if err != nil {
		return "", fmt.Errorf("tool loop: %w", err)
	}
	if final == nil || strings.TrimSpace(final.Content) == "" {
		return "", fmt.Errorf("tool loop produced no final answer")
	}
	return final.Content, nil
}
