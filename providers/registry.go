package providers

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/gobwas/glob"
)

// Spec holds everything a factory needs to build one adapter. Zero values
// leave the provider defaults in place.
type Spec struct {
	Name        string
	Model       string
	MaxTokens   int
	Temperature *float64
	Endpoint    string
	APIKey      string
	Sink        llm.Sink
	Logger      log.Logger
}

// ProviderFactory creates a backend adapter from a spec.
type ProviderFactory func(spec Spec) (llm.Completer, error)

// ModelMatcher determines if a model name matches a provider.
type ModelMatcher func(model string) bool

// ProviderEntry pairs a matcher with its factory.
type ProviderEntry struct {
	Name        string
	Description string
	Match       ModelMatcher
	Factory     ProviderFactory
}

// Registry maps provider names and model names to factories. Providers
// register themselves during init().
type Registry struct {
	mu       sync.RWMutex
	entries  []ProviderEntry
	fallback ProviderFactory
}

// Register adds a provider entry to the registry.
// Entries are checked in registration order, so register more specific
// matchers before more general ones.
func (r *Registry) Register(entry ProviderEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// SetFallback sets the factory used when no matcher matches.
func (r *Registry) SetFallback(factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = factory
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (ProviderEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.entries {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}
	return ProviderEntry{}, false
}

// Create builds an adapter. A non-empty provider selects the entry by name;
// otherwise the first entry whose matcher accepts spec.Model is used, then
// the fallback.
func (r *Registry) Create(provider string, spec Spec) (llm.Completer, error) {
	if provider != "" {
		entry, ok := r.Lookup(provider)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", provider)
		}
		return entry.Factory(spec)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.entries {
		if entry.Match != nil && entry.Match(spec.Model) {
			return entry.Factory(spec)
		}
	}
	if r.fallback != nil {
		return r.fallback(spec)
	}
	return nil, fmt.Errorf("no provider matches model %q", spec.Model)
}

// Entries returns a copy of all registered provider entries.
func (r *Registry) Entries() []ProviderEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]ProviderEntry, len(r.entries))
	copy(result, r.entries)
	return result
}

// Matcher helpers

// PrefixMatcher returns a matcher that checks for a case-insensitive prefix.
func PrefixMatcher(prefix string) ModelMatcher {
	return PrefixesMatcher(prefix)
}

// PrefixesMatcher returns a matcher that checks for any of the given prefixes (case-insensitive).
func PrefixesMatcher(prefixes ...string) ModelMatcher {
	lowered := make([]string, len(prefixes))
	for i, p := range prefixes {
		lowered[i] = strings.ToLower(p)
	}
	return func(model string) bool {
		lower := strings.ToLower(model)
		for _, prefix := range lowered {
			if strings.HasPrefix(lower, prefix) {
				return true
			}
		}
		return false
	}
}

// GlobMatcher returns a case-insensitive matcher for shell-style patterns
// such as "deepseek/*" or "*gemini*". It panics on an invalid pattern.
func GlobMatcher(patterns ...string) ModelMatcher {
	globs := make([]glob.Glob, len(patterns))
	for i, pattern := range patterns {
		globs[i] = glob.MustCompile(strings.ToLower(pattern))
	}
	return func(model string) bool {
		lower := strings.ToLower(model)
		for _, g := range globs {
			if g.Match(lower) {
				return true
			}
		}
		return false
	}
}

// ContainsMatcher returns a matcher that checks if the model contains a substring.
func ContainsMatcher(substr string) ModelMatcher {
	return func(model string) bool {
		return strings.Contains(model, substr)
	}
}

// EnvMatcher returns a matcher that only matches if an environment variable is set.
func EnvMatcher(envVar string, inner ModelMatcher) ModelMatcher {
	return func(model string) bool {
		if os.Getenv(envVar) == "" {
			return false
		}
		return inner(model)
	}
}

var defaultRegistry = &Registry{}

// Register adds a provider entry to the default registry.
// This is typically called from provider init() functions.
func Register(entry ProviderEntry) {
	defaultRegistry.Register(entry)
}

// SetFallback sets the fallback provider on the default registry.
func SetFallback(factory ProviderFactory) {
	defaultRegistry.SetFallback(factory)
}

// Create builds an adapter using the default registry.
func Create(provider string, spec Spec) (llm.Completer, error) {
	return defaultRegistry.Create(provider, spec)
}

// DefaultRegistry returns the default global registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
