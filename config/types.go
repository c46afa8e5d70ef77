package config

// Config is the serializable description of a set of generators.
type Config struct {
	LogLevel   string      `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Generators []Generator `yaml:"generators" json:"generators"`
}

// Generator describes one backend adapter and the extraction settings of the
// generator wrapped around it.
type Generator struct {
	Name         string   `yaml:"name,omitempty" json:"name,omitempty"`
	Provider     string   `yaml:"provider,omitempty" json:"provider,omitempty"`
	Model        string   `yaml:"model,omitempty" json:"model,omitempty"`
	MaxTokens    int      `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	APIKeyEnv    string   `yaml:"api_key_env,omitempty" json:"api_key_env,omitempty"`
	Stream       bool     `yaml:"stream,omitempty" json:"stream,omitempty"`
	Language     string   `yaml:"language,omitempty" json:"language,omitempty"`
	DataFormat   string   `yaml:"data_format,omitempty" json:"data_format,omitempty"`
	LenientLists bool     `yaml:"lenient_lists,omitempty" json:"lenient_lists,omitempty"`
}

// Key identifies the generator within a config: its name, or its model when
// unnamed.
func (g Generator) Key() string {
	if g.Name != "" {
		return g.Name
	}
	return g.Model
}

// Find returns the generator with the given key.
func (c *Config) Find(key string) (Generator, bool) {
	for _, g := range c.Generators {
		if g.Key() == key {
			return g, true
		}
	}
	return Generator{}, false
}

// ConversationFile is the on-disk form of a conversation.
type ConversationFile struct {
	Messages []MessageFile `yaml:"messages" json:"messages"`
}

type MessageFile struct {
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
}
