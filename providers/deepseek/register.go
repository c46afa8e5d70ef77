package deepseek

import (
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/deepnoodle-ai/genner/providers/openrouter"
)

func init() {
	providers.Register(providers.ProviderEntry{
		Name:        "deepseek",
		Description: "DeepSeek over the OpenAI-compatible API",
		Match:       providers.GlobMatcher("deepseek-*"),
		Factory:     factory,
	})
	// Models with "/" are OpenRouter format (e.g., "deepseek/deepseek-r1")
	providers.Register(providers.ProviderEntry{
		Name:        "openrouter",
		Description: "OpenRouter dual-channel stream with reasoning markers",
		Match:       providers.ContainsMatcher("/"),
		Factory:     openRouterFactory,
	})
	for _, backend := range CompatibleBackends {
		registerCompatible(backend)
	}
}

func commonOptions(spec providers.Spec) []Option {
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
	if spec.Sink != nil {
		opts = append(opts, WithSink(spec.Sink))
	}
	if spec.Logger != nil {
		opts = append(opts, WithLogger(spec.Logger))
	}
	return opts
}

func factory(spec providers.Spec) (llm.Completer, error) {
	opts := commonOptions(spec)
	if spec.APIKey != "" {
		opts = append(opts, WithAPIKey(spec.APIKey))
	}
	if spec.Endpoint != "" {
		opts = append(opts, WithEndpoint(spec.Endpoint))
	}
	return New(opts...), nil
}

func openRouterFactory(spec providers.Spec) (llm.Completer, error) {
	var clientOpts []openrouter.Option
	if spec.APIKey != "" {
		clientOpts = append(clientOpts, openrouter.WithAPIKey(spec.APIKey))
	}
	if spec.Endpoint != "" {
		clientOpts = append(clientOpts, openrouter.WithEndpoint(spec.Endpoint))
	}
	if spec.Model == "" {
		spec.Model = openrouter.DefaultModel
	}
	opts := append(commonOptions(spec), WithTransport(OpenRouter(openrouter.New(clientOpts...))))
	return New(opts...), nil
}
