package caption

import (
	"context"
	"errors"
	"strings"

	"clickshift-alpha/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	MaxLength   = 280
	maxTokens   = 150
	temperature = 0.8
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// Generator writes short social captions for analysis results. A nil
// LLMClient always yields the fallback message.
type Generator struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewGenerator(tracer trace.Tracer, llm LLMClient, model string) *Generator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Generator{tracer: tracer, llm: llm, model: model}
}

// Generate never fails: any LLM problem falls back to a fixed message.
func (g *Generator) Generate(ctx context.Context, result *domain.AnalysisResult) string {
	ctx, span := g.tracer.Start(ctx, "caption.generate")
	defer span.End()

	text, err := g.callLLM(ctx, result)
	if err != nil {
		log.Warn().Err(err).Str("address", result.ContractAddress).Msg("caption generation failed, using fallback")
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("caption.fallback", true))
		return Fallback(result)
	}
	return Truncate(text, MaxLength)
}

func (g *Generator) callLLM(ctx context.Context, result *domain.AnalysisResult) (string, error) {
	if g.llm == nil {
		return "", errors.New("llm client not configured")
	}
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("llm.model", g.model))

	completion, err := g.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(BuildPrompt(result))},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no choices in LLM response")
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty LLM reply")
	}
	return text, nil
}

// Truncate cuts s to at most n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
