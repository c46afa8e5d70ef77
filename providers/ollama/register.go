package ollama

import (
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers"
)

func init() {
	providers.Register(providers.ProviderEntry{
		Name:        "qwen",
		Description: "Qwen models served by a local Ollama",
		Match:       providers.PrefixMatcher("qwen"),
		Factory:     namedFactory("qwen", ModelQwen25Coder_7B),
	})
	providers.Register(providers.ProviderEntry{
		Name:        "ollama",
		Description: "Local models via the Ollama chat API; no token cap",
		Match:       providers.PrefixesMatcher("llama", "codellama", "mixtral", "mistral", "gemma", "phi"),
		Factory:     namedFactory("", ""),
	})
	providers.SetFallback(namedFactory("", ""))
}

func namedFactory(defaultName, defaultModel string) providers.ProviderFactory {
	return func(spec providers.Spec) (llm.Completer, error) {
		var opts []Option
		name, model := defaultName, defaultModel
		if spec.Name != "" {
			name = spec.Name
		}
		if name != "" {
			opts = append(opts, WithName(name))
		}
		if spec.Model != "" {
			model = spec.Model
		}
		if model != "" {
			opts = append(opts, WithModel(model))
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
		if spec.Sink != nil {
			opts = append(opts, WithSink(spec.Sink))
		}
		if spec.Logger != nil {
			opts = append(opts, WithLogger(spec.Logger))
		}
		return New(opts...), nil
	}
}
