package provider

import "fmt"

// Backend names the supported upstream providers.
type Backend string

const (
	BackendOpenAI    Backend = "openai"
	BackendAnthropic Backend = "anthropic"
)

// New builds the configured Completer.
func New(backend Backend, apiKey string, opts Options) (Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("provider: missing API key for %q", backend)
	}
	switch backend {
	case BackendOpenAI, "":
		return NewOpenAI(apiKey, opts), nil
	case BackendAnthropic:
		return NewAnthropic(apiKey, opts), nil
	default:
		return nil, fmt.Errorf("provider: unknown backend %q", backend)
	}
}
