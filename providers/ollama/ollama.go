package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/google/uuid"
)

var (
	DefaultName      = "ollama"
	DefaultModel     = ModelLlama31_8B
	DefaultHost      = "http://localhost:11434"
	DefaultMaxTokens = 4096
)

var (
	_ llm.Completer    = &Provider{}
	_ llm.Configurable = &Provider{}
)

// Provider talks to a local Ollama server through its native chat API.
// Messages are sent unchanged and streamed chunks are forwarded as they
// arrive, without a local token cap.
type Provider struct {
	name        string
	endpoint    string
	model       string
	maxTokens   int
	temperature *float64
	client      *http.Client
	sink        llm.Sink
	logger      log.Logger
}

func New(opts ...Option) *Provider {
	host := providers.Getenv("OLLAMA_HOST")
	if host == "" {
		host = DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	p := &Provider{
		name:      DefaultName,
		endpoint:  strings.TrimSuffix(host, "/") + "/api/chat",
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

func (p *Provider) Complete(ctx context.Context, conversation *llm.Conversation) (string, error) {
	if err := p.Settings().Validate(); err != nil {
		return "", llm.NewError(llm.ErrCompletion, p.name+".complete", err)
	}
	if err := conversation.Validate(); err != nil {
		return "", llm.NewError(llm.ErrCompletion, p.name+".complete", err)
	}
	messages := make([]Message, 0, conversation.Len())
	for _, message := range conversation.Messages() {
		messages = append(messages, Message{Role: string(message.Role), Content: message.Content})
	}
	request := &Request{
		Model:    p.model,
		Messages: messages,
		Stream:   p.sink != nil,
		Options: &Options{
			NumPredict:  p.maxTokens,
			Temperature: p.temperature,
		},
	}

	logger := p.logger.With("generator", p.name, "call_id", uuid.NewString())
	logger.Debug("completion started", "model", p.model, "messages", len(messages), "stream", request.Stream)

	resp, err := p.send(ctx, request, logger)
	if err != nil {
		return "", llm.AsCompletionError(p.name+".complete", err)
	}

	var text string
	if request.Stream {
		var result *llm.StreamResult
		result, err = llm.Drain(newStreamIterator(resp.Body), p.sink, 0)
		if result != nil {
			text = result.Text
		}
	} else {
		text, err = decodeResponse(resp.Body)
	}
	if err != nil {
		return "", llm.AsCompletionError(p.name+".complete", err)
	}
	logger.Debug("completion finished", "chars", len(text))
	return text, nil
}

func decodeResponse(body io.ReadCloser) (string, error) {
	defer body.Close()
	var chunk Chunk
	if err := json.NewDecoder(body).Decode(&chunk); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	if chunk.Error != "" {
		return "", fmt.Errorf("ollama error: %s", chunk.Error)
	}
	return chunk.Message.Content, nil
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
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		logger.Warn("ollama api error", "status", resp.StatusCode)
		return nil, providers.NewError(resp.StatusCode, string(data))
	}
	return resp, nil
}
