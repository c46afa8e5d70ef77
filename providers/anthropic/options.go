package anthropic

import (
	"net/http"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
)

type Option func(*Provider)

func WithName(name string) Option {
	return func(p *Provider) {
		p.name = name
	}
}

func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.apiKey = apiKey
	}
}

func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

func WithClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(p *Provider) {
		p.maxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

func WithTemperature(temperature float64) Option {
	return func(p *Provider) {
		p.temperature = &temperature
	}
}

func WithVersion(version string) Option {
	return func(p *Provider) {
		p.version = version
	}
}

// WithSink enables streaming. Every text delta is passed to the sink as it
// arrives.
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
