package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/google/uuid"
)

var (
	DefaultName      = "claude"
	DefaultModel     = ModelClaudeSonnet45
	DefaultEndpoint  = "https://api.anthropic.com/v1/messages"
	DefaultVersion   = "2023-06-01"
	DefaultMaxTokens = 4096
)

var (
	_ llm.Completer    = &Provider{}
	_ llm.Configurable = &Provider{}
)

// Provider is the Claude adapter. It requires a leading system message,
// which is sent as the request's system prompt.
type Provider struct {
	name        string
	apiKey      string
	client      *http.Client
	endpoint    string
	model       string
	version     string
	maxTokens   int
	temperature *float64
	sink        llm.Sink
	logger      log.Logger
}

func New(opts ...Option) *Provider {
	p := &Provider{
		name:      DefaultName,
		apiKey:    os.Getenv("ANTHROPIC_API_KEY"),
		endpoint:  DefaultEndpoint,
		version:   DefaultVersion,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = providers.NewHTTPClient(providers.DefaultConnectTimeout)
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

// Complete sends the conversation to the Messages API. With a sink configured
// the response is streamed and cut off after maxTokens forwarded tokens.
func (p *Provider) Complete(ctx context.Context, conversation *llm.Conversation) (string, error) {
	if err := p.Settings().Validate(); err != nil {
		return "", llm.NewError(llm.ErrCompletion, "anthropic.complete", err)
	}
	system, rest, err := conversation.SplitSystem()
	if err != nil {
		return "", err
	}
	if err := conversation.Validate(); err != nil {
		return "", llm.NewError(llm.ErrCompletion, "anthropic.complete", err)
	}
	request := &Request{
		Model:       p.model,
		Messages:    convertMessages(rest),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		System:      system.Content,
		Stream:      p.sink != nil,
	}

	logger := p.logger.With("generator", p.name, "call_id", uuid.NewString())
	logger.Debug("completion started",
		"model", p.model,
		"messages", len(request.Messages),
		"stream", request.Stream)

	var text string
	if request.Stream {
		text, err = p.stream(ctx, request, logger)
	} else {
		text, err = p.generate(ctx, request, logger)
	}
	if err != nil {
		return "", llm.AsCompletionError("anthropic.complete", err)
	}
	if text == "" {
		return "", llm.Errorf(llm.ErrCompletion, "anthropic.complete", "empty response from anthropic api")
	}
	logger.Debug("completion finished", "chars", len(text))
	return text, nil
}

func (p *Provider) generate(ctx context.Context, request *Request, logger log.Logger) (string, error) {
	resp, err := p.send(ctx, request, logger)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	for _, block := range result.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("response has no text content (%d blocks)", len(result.Content))
}

func (p *Provider) stream(ctx context.Context, request *Request, logger log.Logger) (string, error) {
	resp, err := p.send(ctx, request, logger)
	if err != nil {
		return "", err
	}
	iterator := newStreamIterator(resp.Body)
	result, err := llm.Drain(iterator, p.sink, p.maxTokens)
	if err != nil {
		return "", fmt.Errorf("error reading stream: %w", err)
	}
	if result.Truncated {
		logger.Debug("stream cut off at token cap", "tokens", result.Tokens)
	}
	return result.Text, nil
}

func (p *Provider) send(ctx context.Context, request *Request, logger log.Logger) (*http.Response, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", p.version)
	req.Header.Set("content-type", "application/json")
	if request.Stream {
		req.Header.Set("accept", "text/event-stream")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		logger.Warn("anthropic api error", "status", resp.StatusCode)
		return nil, providers.NewError(resp.StatusCode, string(data))
	}
	return resp, nil
}

func convertMessages(messages []llm.Message) []Message {
	converted := make([]Message, 0, len(messages))
	for _, message := range messages {
		role := "user"
		if message.Role == llm.Assistant {
			role = "assistant"
		}
		converted = append(converted, Message{
			Role:    role,
			Content: []ContentBlock{{Type: "text", Text: message.Content}},
		})
	}
	return converted
}
