package genner

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/genner/extract"
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
)

// Generator turns conversations into text and structured payloads.
type Generator interface {
	// Name returns the display name of the underlying backend.
	Name() string

	// Complete returns the generated text. Errors are CompletionErrors.
	Complete(ctx context.Context, conversation *llm.Conversation) (string, error)

	// GenerateCode completes the conversation and extracts one fenced code
	// block per scope tag. Extraction failures are soft: the result keeps the
	// raw text, Code is nil and Cause holds the extraction error.
	GenerateCode(ctx context.Context, conversation *llm.Conversation, tags ...string) (*CodeResult, error)

	// GenerateList completes the conversation and extracts one list per scope
	// tag. Extraction failures are returned as errors.
	GenerateList(ctx context.Context, conversation *llm.Conversation, tags ...string) (*ListResult, error)
}

var _ Generator = &Genner{}

// Options configure a Genner.
type Options struct {
	Language     string
	DataFormat   string
	LenientLists bool
	Logger       log.Logger
}

// Option is a function that modifies the options.
type Option func(*Options)

// WithLanguage sets the language marker of extracted code fences.
func WithLanguage(language string) Option {
	return func(o *Options) {
		o.Language = language
	}
}

// WithDataFormat sets the marker of extracted list fences.
func WithDataFormat(format string) Option {
	return func(o *Options) {
		o.DataFormat = format
	}
}

// WithLenientLists accepts non-string scalar list elements.
func WithLenientLists(lenient bool) Option {
	return func(o *Options) {
		o.LenientLists = lenient
	}
}

func WithLogger(logger log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Genner implements Generator on top of a backend adapter.
type Genner struct {
	completer llm.Completer
	extractor *extract.Extractor
	logger    log.Logger
}

// New wraps a backend adapter.
func New(completer llm.Completer, opts ...Option) *Genner {
	options := Options{
		Language:   extract.DefaultLanguage,
		DataFormat: extract.DefaultDataFormat,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Genner{
		completer: completer,
		extractor: extract.New(
			extract.WithLanguage(options.Language),
			extract.WithDataFormat(options.DataFormat),
			extract.WithLenientLists(options.LenientLists),
		),
		logger: log.OrDefault(options.Logger),
	}
}

func (g *Genner) Name() string {
	return g.completer.Name()
}

// Completer returns the wrapped backend adapter.
func (g *Genner) Completer() llm.Completer {
	return g.completer
}

// Extractor returns the extractor used by GenerateCode and GenerateList.
func (g *Genner) Extractor() *extract.Extractor {
	return g.extractor
}

func (g *Genner) Complete(ctx context.Context, conversation *llm.Conversation) (text string, err error) {
	op := g.Name() + ".complete"
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = llm.NewError(llm.ErrCompletion, op, fmt.Errorf("panic: %v", r))
			g.logger.Error("completion panicked", "generator", g.Name(), "panic", r)
		}
	}()

	text, err = g.completer.Complete(ctx, conversation)
	if err != nil {
		return "", llm.AsCompletionError(op, err)
	}
	return text, nil
}

func (g *Genner) GenerateCode(ctx context.Context, conversation *llm.Conversation, tags ...string) (*CodeResult, error) {
	raw, err := g.Complete(ctx, conversation)
	if err != nil {
		return nil, err
	}
	code, err := g.extractor.Code(raw, tags...)
	if err != nil {
		g.logger.Warn("code extraction failed, returning raw text",
			"generator", g.Name(),
			"tags", tags,
			"error", err)
		return &CodeResult{Raw: raw, Cause: err}, nil
	}
	return &CodeResult{Code: code, Raw: raw}, nil
}

func (g *Genner) GenerateList(ctx context.Context, conversation *llm.Conversation, tags ...string) (*ListResult, error) {
	raw, err := g.Complete(ctx, conversation)
	if err != nil {
		return nil, err
	}
	items, err := g.extractor.List(raw, tags...)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Raw: raw}, nil
}
