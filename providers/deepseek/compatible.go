package deepseek

import (
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers"
)

// Compatible describes a backend that serves the OpenAI chat completions
// protocol and is driven by this adapter with its own endpoint and key.
type Compatible struct {
	Name         string
	Endpoint     string
	KeyEnv       []string
	DefaultModel string
	Match        providers.ModelMatcher
}

// CompatibleBackends are registered alongside DeepSeek.
var CompatibleBackends = []Compatible{
	{
		Name:         "openai",
		Endpoint:     "https://api.openai.com/v1",
		KeyEnv:       []string{"OPENAI_API_KEY"},
		DefaultModel: "gpt-4o",
		Match:        providers.PrefixesMatcher("gpt-", "o3", "o4"),
	},
	{
		Name:         "grok",
		Endpoint:     "https://api.x.ai/v1",
		KeyEnv:       []string{"XAI_API_KEY", "GROK_API_KEY"},
		DefaultModel: "grok-4-fast-reasoning",
		Match:        providers.PrefixMatcher("grok-"),
	},
	{
		Name:         "mistral",
		Endpoint:     "https://api.mistral.ai/v1",
		KeyEnv:       []string{"MISTRAL_API_KEY"},
		DefaultModel: "mistral-large-latest",
		Match:        providers.PrefixesMatcher("mistral-", "ministral-", "codestral-", "devstral-"),
	},
	{
		// Groq hosts open models whose names overlap with local ones, so it
		// only claims them when a key is configured.
		Name:         "groq",
		Endpoint:     "https://api.groq.com/openai/v1",
		KeyEnv:       []string{"GROQ_API_KEY"},
		DefaultModel: "llama-3.3-70b-versatile",
		Match:        providers.EnvMatcher("GROQ_API_KEY", providers.GlobMatcher("*-versatile", "*-instant")),
	},
}

func registerCompatible(backend Compatible) {
	providers.Register(providers.ProviderEntry{
		Name:        backend.Name,
		Description: "OpenAI-compatible chat completions at " + backend.Endpoint,
		Match:       backend.Match,
		Factory:     compatibleFactory(backend),
	})
}

func compatibleFactory(backend Compatible) providers.ProviderFactory {
	return func(spec providers.Spec) (llm.Completer, error) {
		if spec.Name == "" {
			spec.Name = backend.Name
		}
		if spec.Model == "" {
			spec.Model = backend.DefaultModel
		}
		if spec.Endpoint == "" {
			spec.Endpoint = backend.Endpoint
		}
		if spec.APIKey == "" {
			spec.APIKey = providers.Getenv(backend.KeyEnv...)
		}
		return factory(spec)
	}
}
