package ollama

import (
	"net/http"
	"strings"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
)

type Option func(*Provider)

// WithName sets the display name, e.g. "qwen".
func WithName(name string) Option {
	return func(p *Provider) {
		p.name = name
	}
}

// WithEndpoint sets the server address. A bare host such as
// "http://gpu-box:11434" gets the chat path appended.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		if !strings.HasSuffix(endpoint, "/api/chat") {
			endpoint = strings.TrimSuffix(endpoint, "/") + "/api/chat"
		}
		p.endpoint = endpoint
	}
}

func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets num_predict on the request. It is not enforced locally.
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

func WithClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
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
