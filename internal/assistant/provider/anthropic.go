package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/littledragon/assistant/internal/assistant/domain"
)

// DefaultAnthropicModel is the chat model used when none is configured.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// Anthropic is a Completer backed by the Anthropic messages API.
type Anthropic struct {
	client anthropic.Client
	opts   Options
}

var _ Completer = (*Anthropic)(nil)

func NewAnthropic(apiKey string, opts Options) *Anthropic {
	if opts.Model == "" {
		opts.Model = DefaultAnthropicModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1000
	}
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		opts:   opts,
	}
}

func (a *Anthropic) Complete(ctx context.Context, msgs []domain.Message) (string, error) {
	resp, err := a.client.Messages.New(ctx, a.params(msgs))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String(), nil
}

func (a *Anthropic) Stream(ctx context.Context, msgs []domain.Message) (<-chan Chunk, error) {
	stream := a.client.Messages.NewStreaming(ctx, a.params(msgs))

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			deltaEvent, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			textDelta, ok := deltaEvent.Delta.AsAny().(anthropic.TextDelta)
			if !ok || textDelta.Text == "" {
				continue
			}
			select {
			case out <- Chunk{Text: textDelta.Text}:
			case <-ctx.Done():
				return
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

// params converts the transcript into Anthropic's shape. System messages go
// in the dedicated system field rather than the message list.
func (a *Anthropic) params(msgs []domain.Message) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	converted := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleAssistant:
			converted = append(converted, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case domain.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		default:
			converted = append(converted, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	return anthropic.MessageNewParams{
		Model:       anthropic.Model(a.opts.Model),
		MaxTokens:   a.opts.MaxTokens,
		Messages:    converted,
		System:      system,
		Temperature: anthropic.Float(a.opts.Temperature),
	}
}
