package config

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/genner"
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/deepnoodle-ai/genner/providers"
)

type buildOptions struct {
	registry *providers.Registry
	logger   log.Logger
}

// BuildOption customizes Build.
type BuildOption func(*buildOptions)

// WithRegistry resolves providers from r instead of the default registry.
func WithRegistry(r *providers.Registry) BuildOption {
	return func(o *buildOptions) {
		o.registry = r
	}
}

// WithLogger overrides the logger derived from the config's log level.
func WithLogger(logger log.Logger) BuildOption {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// Build instantiates every configured generator in order. The sink is
// attached to generators with stream enabled and ignored by the others.
func Build(cfg *Config, sink llm.Sink, opts ...BuildOption) ([]*genner.Genner, error) {
	options := buildOptions{registry: providers.DefaultRegistry()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		level := log.LevelInfo
		if cfg.LogLevel != "" {
			level = log.LevelFromString(cfg.LogLevel)
		}
		options.logger = log.New(level)
	}

	seen := make(map[string]bool, len(cfg.Generators))
	generators := make([]*genner.Genner, 0, len(cfg.Generators))
	for i, g := range cfg.Generators {
		if g.Model == "" && g.Provider == "" {
			return nil, fmt.Errorf("generator %d: model or provider is required", i)
		}
		if key := g.Key(); key != "" {
			if seen[key] {
				return nil, fmt.Errorf("generator %d: duplicate name %q", i, key)
			}
			seen[key] = true
		}
		gen, err := buildGenerator(g, sink, options)
		if err != nil {
			return nil, fmt.Errorf("generator %q: %w", g.Key(), err)
		}
		generators = append(generators, gen)
	}
	return generators, nil
}

func buildGenerator(g Generator, sink llm.Sink, options buildOptions) (*genner.Genner, error) {
	spec := providers.Spec{
		Name:        g.Name,
		Model:       g.Model,
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
		Endpoint:    g.Endpoint,
		Logger:      options.logger,
	}
	if g.APIKeyEnv != "" {
		spec.APIKey = os.Getenv(g.APIKeyEnv)
		if spec.APIKey == "" {
			return nil, fmt.Errorf("environment variable %s is not set", g.APIKeyEnv)
		}
	}
	if g.Stream {
		spec.Sink = sink
	}
	completer, err := options.registry.Create(g.Provider, spec)
	if err != nil {
		return nil, err
	}
	if configurable, ok := completer.(llm.Configurable); ok {
		if err := configurable.Settings().Validate(); err != nil {
			return nil, fmt.Errorf("invalid settings: %w", err)
		}
	}

	opts := []genner.Option{
		genner.WithLenientLists(g.LenientLists),
		genner.WithLogger(options.logger),
	}
	if g.Language != "" {
		opts = append(opts, genner.WithLanguage(g.Language))
	}
	if g.DataFormat != "" {
		opts = append(opts, genner.WithDataFormat(g.DataFormat))
	}
	return genner.New(completer, opts...), nil
}
