package mocks

import (
	"context"
	"sync"

	"github.com/deepnoodle-ai/genner/llm"
)

var _ llm.Completer = &Completer{}

// CompleterOptions configures a Completer.
type CompleterOptions struct {
	Name     string
	Response string
	Err      error

	// CompleteFunc, when set, replaces the canned response.
	CompleteFunc func(ctx context.Context, conversation *llm.Conversation) (string, error)
}

// Completer returns a canned response and records every conversation it
// receives.
type Completer struct {
	name         string
	response     string
	err          error
	completeFunc func(ctx context.Context, conversation *llm.Conversation) (string, error)

	mutex sync.Mutex
	calls []*llm.Conversation
}

func NewCompleter(opts CompleterOptions) *Completer {
	name := opts.Name
	if name == "" {
		name = "mock"
	}
	return &Completer{
		name:         name,
		response:     opts.Response,
		err:          opts.Err,
		completeFunc: opts.CompleteFunc,
	}
}

func (c *Completer) Name() string {
	return c.name
}

func (c *Completer) Complete(ctx context.Context, conversation *llm.Conversation) (string, error) {
	c.mutex.Lock()
	c.calls = append(c.calls, conversation)
	c.mutex.Unlock()

	if c.completeFunc != nil {
		return c.completeFunc(ctx, conversation)
	}
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

// Calls returns the conversations passed to Complete, in call order.
func (c *Completer) Calls() []*llm.Conversation {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	calls := make([]*llm.Conversation, len(c.calls))
	copy(calls, c.calls)
	return calls
}

var _ llm.Configurable = &ConfigurableCompleter{}

// ConfigurableCompleter is a Completer that also reports fixed settings.
type ConfigurableCompleter struct {
	*Completer
	settings llm.Settings
}

func NewConfigurableCompleter(opts CompleterOptions, settings llm.Settings) *ConfigurableCompleter {
	return &ConfigurableCompleter{Completer: NewCompleter(opts), settings: settings}
}

func (c *ConfigurableCompleter) Settings() llm.Settings {
	return c.settings
}
