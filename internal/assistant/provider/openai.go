package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/littledragon/assistant/internal/assistant/domain"
)

// DefaultOpenAIModel is the chat model used when none is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI is a Completer backed by the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	opts   Options
}

var _ Completer = (*OpenAI)(nil)

// NewOpenAI builds an OpenAI completer. Zero-value option fields fall back
// to sensible defaults.
func NewOpenAI(apiKey string, opts Options) *OpenAI {
	if opts.Model == "" {
		opts.Model = DefaultOpenAIModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1000
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		opts:   opts,
	}
}

func (o *OpenAI) Complete(ctx context.Context, msgs []domain.Message) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, o.params(msgs))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) Stream(ctx context.Context, msgs []domain.Message) (<-chan Chunk, error) {
	stream := o.client.Chat.Completions.NewStreaming(ctx, o.params(msgs))

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				select {
				case out <- Chunk{Text: delta}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			select {
			case out <- Chunk{Err: fmt.Errorf("%w: %v", ErrUpstream, err)}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

func (o *OpenAI) params(msgs []domain.Message) openai.ChatCompletionNewParams {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(m.Content))
		case domain.RoleSystem:
			converted = append(converted, openai.SystemMessage(m.Content))
		default:
			converted = append(converted, openai.UserMessage(m.Content))
		}
	}

	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.opts.Model),
		Messages:    converted,
		Temperature: openai.Float(o.opts.Temperature),
		MaxTokens:   openai.Int(o.opts.MaxTokens),
	}
}
