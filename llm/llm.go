package llm

import "context"

// Completer is implemented by every backend adapter. Complete performs one
// round trip, or one streaming session, and returns the final text.
//
// Errors returned by Complete are CompletionErrors. Implementations must not
// retry and must release any stream they open before returning.
type Completer interface {
	// Name returns the display name of the adapter.
	Name() string

	// Complete turns the conversation into generated text.
	Complete(ctx context.Context, conversation *Conversation) (string, error)
}

// Configurable is implemented by adapters that expose their settings.
type Configurable interface {
	Settings() Settings
}
