package deepseek

import (
	"context"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/google/uuid"
	"github.com/openai/openai-go/option"
)

var (
	DefaultName      = "deepseek"
	DefaultModel     = ModelDeepSeekChat
	DefaultEndpoint  = "https://api.deepseek.com"
	DefaultMaxTokens = 4096
)

var (
	_ llm.Completer    = &Provider{}
	_ llm.Configurable = &Provider{}
)

// Provider is the DeepSeek adapter. The conversation is sent as-is over the
// configured transport. In streaming mode tokens pass through llm.Drain, so
// reasoning is framed by the thinking markers in the sink while only answer
// text is returned.
type Provider struct {
	name        string
	model       string
	maxTokens   int
	temperature *float64
	transport   Transport
	options     []option.RequestOption
	sink        llm.Sink
	logger      log.Logger
}

func New(opts ...Option) *Provider {
	p := &Provider{
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.transport == nil {
		options := []option.RequestOption{
			option.WithAPIKey(providers.Getenv("DEEPSEEK_API_KEY", "OPENAI_API_KEY")),
			option.WithBaseURL(DefaultEndpoint),
			option.WithHTTPClient(providers.NewHTTPClient(providers.DefaultConnectTimeout)),
		}
		p.transport = OpenAI(append(options, p.options...)...)
	}
	if p.name == "" {
		p.name = DefaultName
		if p.transport.kind() == "openrouter" {
			p.name = "openrouter-" + p.model
		}
	}
	p.logger = log.OrDefault(p.logger)
	return p
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Settings() llm.Settings {
	return llm.Settings{
		Name:        p.name,
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}
}

func (p *Provider) Complete(ctx context.Context, conversation *llm.Conversation) (string, error) {
	if err := p.Settings().Validate(); err != nil {
		return "", llm.NewError(llm.ErrCompletion, "deepseek.complete", err)
	}
	if err := conversation.Validate(); err != nil {
		return "", llm.NewError(llm.ErrCompletion, "deepseek.complete", err)
	}
	request := &transportRequest{
		messages:    conversation.Messages(),
		model:       p.model,
		maxTokens:   p.maxTokens,
		temperature: p.temperature,
	}

	logger := p.logger.With("generator", p.name, "call_id", uuid.NewString())
	logger.Debug("completion started",
		"model", p.model,
		"transport", p.transport.kind(),
		"messages", len(request.messages),
		"stream", p.sink != nil)

	var text string
	var err error
	if p.sink != nil {
		text, err = p.stream(ctx, request, logger)
	} else {
		text, err = p.transport.complete(ctx, request)
	}
	if err != nil {
		logger.Warn("completion failed", "error", err)
		return "", llm.AsCompletionError("deepseek.complete", err)
	}
	if text == "" {
		return "", llm.Errorf(llm.ErrCompletion, "deepseek.complete", "empty response from %s transport", p.transport.kind())
	}
	logger.Debug("completion finished", "chars", len(text))
	return text, nil
}

func (p *Provider) stream(ctx context.Context, request *transportRequest, logger log.Logger) (string, error) {
	stream, err := p.transport.stream(ctx, request)
	if err != nil {
		return "", err
	}
	result, err := llm.Drain(stream, p.sink, p.transport.tokenCap(request))
	if err != nil {
		return "", err
	}
	if result.Truncated {
		logger.Debug("stream cut off at token cap", "tokens", result.Tokens)
	}
	if result.Reasoning != "" {
		logger.Debug("reasoning received", "chars", len(result.Reasoning))
	}
	return result.Text, nil
}
