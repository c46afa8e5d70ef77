package deepseek

import (
	"net/http"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/openai/openai-go/option"
)

type Option func(*Provider)

// WithName overrides the display name. Without it the name is "deepseek",
// or "openrouter-<model>" on the OpenRouter transport.
func WithName(name string) Option {
	return func(p *Provider) {
		p.name = name
	}
}

func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets the request limit and the streaming token cap.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Provider) {
		p.maxTokens = maxTokens
	}
}

func WithTemperature(temperature float64) Option {
	return func(p *Provider) {
		p.temperature = &temperature
	}
}

// WithTransport selects the wire protocol. Defaults to OpenAI against the
// DeepSeek API.
func WithTransport(transport Transport) Option {
	return func(p *Provider) {
		p.transport = transport
	}
}

// WithAPIKey sets the API key of the default OpenAI transport.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.options = append(p.options, option.WithAPIKey(apiKey))
	}
}

// WithEndpoint sets the base URL of the default OpenAI transport.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		p.options = append(p.options, option.WithBaseURL(endpoint))
	}
}

// WithClient sets the HTTP client of the default OpenAI transport.
func WithClient(client *http.Client) Option {
	return func(p *Provider) {
		p.options = append(p.options, option.WithHTTPClient(client))
	}
}

// WithSink enables streaming.
func WithSink(sink llm.Sink) Option {
	return func(p *Provider) {
		p.sink = sink
	}
}

func WithLogger(logger log.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}
