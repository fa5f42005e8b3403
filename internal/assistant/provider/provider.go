// Package provider abstracts the upstream LLM APIs behind a small completion
// interface. OpenAI and Anthropic backends are supported.
package provider

import (
	"context"
	"errors"

	"github.com/littledragon/assistant/internal/assistant/domain"
)

var ErrUpstream = errors.New("provider: upstream request failed")

// Chunk is one fragment of a streamed completion. Err is set on the final
// chunk when the stream failed mid-way.
type Chunk struct {
	Text string
	Err  error
}

// Completer produces assistant replies from a conversation context. The
// messages are ordered oldest first with the newest user message last.
type Completer interface {
	// Complete returns the full reply in one shot.
	Complete(ctx context.Context, msgs []domain.Message) (string, error)

	// Stream returns reply fragments as the upstream produces them. The
	// channel is closed when the stream ends; a Chunk with Err set signals
	// an upstream failure and is always the last value.
	Stream(ctx context.Context, msgs []domain.Message) (<-chan Chunk, error)
}

// Options tune completion requests across backends.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
}
