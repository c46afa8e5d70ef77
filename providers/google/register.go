package google

import (
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers"
)

func init() {
	providers.Register(providers.ProviderEntry{
		Name:        "google",
		Description: "Gemini via the genai SDK; no token cap",
		Match:       providers.PrefixMatcher("gemini-"),
		Factory:     factory,
	})
}

func factory(spec providers.Spec) (llm.Completer, error) {
	var opts []Option
	if spec.Name != "" {
		opts = append(opts, WithName(spec.Name))
	}
	if spec.Model != "" {
		opts = append(opts, WithModel(spec.Model))
	}
	if spec.MaxTokens > 0 {
		opts = append(opts, WithMaxTokens(spec.MaxTokens))
	}
	if spec.Temperature != nil {
		opts = append(opts, WithTemperature(*spec.Temperature))
	}
	if spec.Endpoint != "" {
		opts = append(opts, WithEndpoint(spec.Endpoint))
	}
	if spec.APIKey != "" {
		opts = append(opts, WithAPIKey(spec.APIKey))
	}
	if spec.Sink != nil {
		opts = append(opts, WithSink(spec.Sink))
	}
	if spec.Logger != nil {
		opts = append(opts, WithLogger(spec.Logger))
	}
	return New(opts...), nil
}
