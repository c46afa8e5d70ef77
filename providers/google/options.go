package google

import (
	"net/http"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
)

// Option is a function that configures the Google provider.
type Option func(*Provider)

func WithName(name string) Option {
	return func(p *Provider) {
		p.name = name
	}
}

// WithProjectID selects the Vertex AI backend for the given project.
func WithProjectID(projectID string) Option {
	return func(p *Provider) {
		p.projectID = projectID
	}
}

// WithLocation sets the Google Cloud location/region.
func WithLocation(location string) Option {
	return func(p *Provider) {
		p.location = location
	}
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets MaxOutputTokens on the request. It is not enforced
// locally.
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

// WithAPIKey sets the API key for the provider.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.apiKey = apiKey
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
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
