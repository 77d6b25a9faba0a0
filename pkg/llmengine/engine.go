package llmengine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// temperature is fixed low to favor deterministic SQL generation over
// creative phrasing.
const temperature = 0.1

const maxOutputTokens = 4096

// Config configures an Engine against one OpenAI-compatible deployment.
type Config struct {
	APIKey              string
	BaseURL             string // empty uses the provider's default
	ChatModel           string
	EmbeddingModel      string
	EmbeddingDimensions int
}

// Engine issues chat completions and embeddings against an OpenAI-compatible
// API. It implements schemaindex.Embedder.
type Engine struct {
	client              openai.Client
	chatModel           string
	embeddingModel      string
	embeddingDimensions int
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Engine{
		client:              openai.NewClient(opts...),
		chatModel:           cfg.ChatModel,
		embeddingModel:      cfg.EmbeddingModel,
		embeddingDimensions: cfg.EmbeddingDimensions,
	}
}

func (e *Engine) messages(question, schemaContext string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(buildSystemPrompt(schemaContext)),
		openai.UserMessage(question),
	}
}

// GenerateStream issues a streaming chat completion and returns a channel of
// Events: zero or more EventThinkingDelta, followed by exactly one of
// EventFinal or EventError. The channel is closed once the terminal event is
// sent. The caller must drain it or cancel ctx to avoid leaking the
// goroutine.
func (e *Engine) GenerateStream(ctx context.Context, question, schemaContext string) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		stream := e.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
			Model:       e.chatModel,
			Messages:    e.messages(question, schemaContext),
			Temperature: openai.Float(temperature),
			MaxTokens:   openai.Int(maxOutputTokens),
		})
		defer stream.Close()

		acc := openai.ChatCompletionAccumulator{}
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 {
				if delta := chunk.Choices[0].Delta.Content; delta != "" {
					select {
					case out <- Event{Kind: EventThinkingDelta, Delta: delta}:
					case <-ctx.Done():
						return
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			slog.Error("llm stream failed", "error", err)
			out <- Event{Kind: EventError, Code: ErrLLMError, Message: err.Error()}
			return
		}

		body := ""
		if len(acc.Choices) > 0 {
			body = acc.Choices[0].Message.Content
		}

		envelope, ok := extractEnvelope(body)
		if !ok {
			out <- Event{Kind: EventError, Code: ErrParseFailed, Message: "model output could not be parsed as a structured envelope"}
			return
		}
		out <- Event{Kind: EventFinal, Envelope: envelope}
	}()

	return out
}

// Generate is the non-streaming convenience form of GenerateStream. It
// returns nil, nil when the model output could not be parsed.
func (e *Engine) Generate(ctx context.Context, question, schemaContext string) (*Envelope, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       e.chatModel,
		Messages:    e.messages(question, schemaContext),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("llmengine: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llmengine: empty response")
	}

	envelope, ok := extractEnvelope(resp.Choices[0].Message.Content)
	if !ok {
		return nil, nil
	}
	return &envelope, nil
}

// Embed implements schemaindex.Embedder by calling the embeddings endpoint
// for every text in one request.
func (e *Engine) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: e.embeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	}
	if e.embeddingDimensions > 0 {
		params.Dimensions = openai.Int(int64(e.embeddingDimensions))
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("llmengine: embeddings: %w", err)
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, f := range d.Embedding {
			vec[j] = float32(f)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions implements schemaindex.Embedder.
func (e *Engine) Dimensions() int {
	return e.embeddingDimensions
}
