package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
	openrouterx "github.com/nattavee/Fathom-Deep-Research-Agent/pkg/openrouter"
)

type modelSet struct {
	decision    contractx.ModelInvoker
	compression contractx.ModelInvoker
	assessment  contractx.ModelInvoker
}

func (m *modelSet) Decision() contractx.ModelInvoker    { return m.decision }
func (m *modelSet) Compression() contractx.ModelInvoker { return m.compression }
func (m *modelSet) Assessment() contractx.ModelInvoker  { return m.assessment }

// NewModelSet builds the three model profiles. The decision model gets the
// tool definitions bound; compression runs without tools over the eino
// adapter; assessment goes through the raw OpenAI SDK client since it never
// needs tool calling.
func NewModelSet(ctx context.Context, cfg Config, tools []*schema.ToolInfo) (contractx.ModelSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	decisionCfg := cfg.OpenRouterFor(contractx.ProfileDecision)
	decisionModel, err := decisionCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create decision model: %v", contractx.ErrModelInvoke, err)
	}
	if len(tools) > 0 {
		decisionModel, err = decisionModel.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools to decision model: %v", contractx.ErrModelInvoke, err)
		}
	}

	compressionCfg := cfg.OpenRouterFor(contractx.ProfileCompression)
	compressionModel, err := compressionCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create compression model: %v", contractx.ErrModelInvoke, err)
	}

	assessmentCfg := cfg.OpenRouterFor(contractx.ProfileAssessment)
	client := openrouterx.NewClient(assessmentCfg)
	if client == nil {
		return nil, fmt.Errorf("%w: create assessment client", contractx.ErrModelInvoke)
	}

	return &modelSet{
		decision:    &einoInvoker{model: decisionModel, profile: contractx.ProfileDecision},
		compression: &einoInvoker{model: compressionModel, profile: contractx.ProfileCompression},
		assessment: &completionInvoker{
			client:      client,
			model:       assessmentCfg.Model,
			maxTokens:   int64(cfg.AssessmentMaxToken),
			temperature: float64(assessmentCfg.Temperature),
		},
	}, nil
}

// einoInvoker adapts an eino chat model to the ModelInvoker contract.
type einoInvoker struct {
	model   einomodel.BaseChatModel
	profile contractx.Profile
}

func (i *einoInvoker) Invoke(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	resp, err := i.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: profile=%s: %v", contractx.ErrModelInvoke, i.profile, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: profile=%s returned no message", contractx.ErrModelInvoke, i.profile)
	}
	return resp, nil
}

// completionInvoker runs plain chat completions through the OpenAI SDK.
// Tool turns are not supported; the assessment profile never sees them.
type completionInvoker struct {
	client      *openaisdk.Client
	model       string
	maxTokens   int64
	temperature float64
}

func (i *completionInvoker) Invoke(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	converted, err := toCompletionMessages(messages)
	if err != nil {
		return nil, fmt.Errorf("%w: profile=%s: %v", contractx.ErrModelInvoke, contractx.ProfileAssessment, err)
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(i.model),
		Messages: converted,
	}
	if i.maxTokens > 0 {
		params.MaxTokens = openaisdk.Int(i.maxTokens)
	}
	if i.temperature >= 0 {
		params.Temperature = openaisdk.Float(i.temperature)
	}

	completion, err := i.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: profile=%s: %v", contractx.ErrModelInvoke, contractx.ProfileAssessment, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: profile=%s returned no choices", contractx.ErrModelInvoke, contractx.ProfileAssessment)
	}

	return schema.AssistantMessage(completion.Choices[0].Message.Content, nil), nil
}

func toCompletionMessages(messages []*schema.Message) ([]openaisdk.ChatCompletionMessageParamUnion, error) {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		switch msg.Role {
		case schema.System:
			out = append(out, openaisdk.SystemMessage(content))
		case schema.User:
			out = append(out, openaisdk.UserMessage(content))
		case schema.Assistant:
			out = append(out, openaisdk.AssistantMessage(content))
		default:
			return nil, fmt.Errorf("unsupported role %q for completion invoker", msg.Role)
		}
	}
	return out, nil
}
