package llm

import "fmt"

// Settings configure one adapter. They are fixed when the adapter is
// constructed and never change afterwards.
type Settings struct {
	// Name is the display name of the generator, e.g. "claude".
	Name string `json:"name" yaml:"name"`

	// Model is the provider model identifier.
	Model string `json:"model" yaml:"model"`

	// MaxTokens bounds the output. Streaming adapters that apply the local
	// token cutoff also stop forwarding tokens after this many.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature. Nil leaves the provider
	// default in place.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// Validate checks the settings are usable for a request.
func (s Settings) Validate() error {
	if s.Model == "" {
		return fmt.Errorf("model is required")
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive (got %d)", s.MaxTokens)
	}
	if s.Temperature != nil && (*s.Temperature < 0 || *s.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0 and 2 (got %g)", *s.Temperature)
	}
	return nil
}
