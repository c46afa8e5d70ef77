package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/deepnoodle-ai/genner/providers"
)

var (
	DefaultModel     = ModelDeepSeekR1
	DefaultEndpoint  = "https://openrouter.ai/api/v1/chat/completions"
	DefaultMaxTokens = 4096

	// DefaultProviderOrder is the upstream routing preference sent with every
	// request.
	DefaultProviderOrder = []string{"DeepSeek", "Nebius", "Together", "Fireworks"}
)

// Client talks to the OpenRouter chat completions API. Streams are
// dual-channel: reasoning deltas and answer deltas are reported separately.
type Client struct {
	apiKey           string
	endpoint         string
	model            string
	maxTokens        int
	providerOrder    []string
	includeReasoning bool
	client           *http.Client
	siteURL          string
	siteName         string
}

func New(opts ...Option) *Client {
	c := &Client{
		apiKey:           os.Getenv("OPENROUTER_API_KEY"),
		endpoint:         DefaultEndpoint,
		model:            DefaultModel,
		maxTokens:        DefaultMaxTokens,
		providerOrder:    DefaultProviderOrder,
		includeReasoning: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	underlying := c.client
	if underlying == nil {
		underlying = providers.NewHTTPClient(providers.DefaultConnectTimeout)
	}
	c.client = &http.Client{
		Timeout: underlying.Timeout,
		Transport: &openRouterTransport{
			underlying: underlying.Transport,
			siteURL:    c.siteURL,
			siteName:   c.siteName,
		},
	}
	return c
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) MaxTokens() int {
	return c.maxTokens
}

// IncludeReasoning reports whether streams carry reasoning deltas.
func (c *Client) IncludeReasoning() bool {
	return c.includeReasoning
}

// ChatRequest overrides the client defaults for one call. Zero values keep
// the defaults.
type ChatRequest struct {
	Messages    []Message
	Model       string
	MaxTokens   int
	Temperature *float64
}

func (c *Client) payload(request ChatRequest, stream bool) *Request {
	payload := &Request{
		Messages:         request.Messages,
		Model:            c.model,
		MaxTokens:        c.maxTokens,
		Temperature:      request.Temperature,
		IncludeReasoning: c.includeReasoning,
		Stream:           stream,
	}
	if len(c.providerOrder) > 0 {
		payload.Provider = &ProviderPreferences{Order: c.providerOrder}
	}
	if request.Model != "" {
		payload.Model = request.Model
	}
	if request.MaxTokens > 0 {
		payload.MaxTokens = request.MaxTokens
	}
	return payload
}

// CreateChatCompletion returns the content of the first choice.
func (c *Client) CreateChatCompletion(ctx context.Context, request ChatRequest) (string, error) {
	resp, err := c.send(ctx, c.payload(request, false))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("openrouter error (%d): %s", result.Error.Code, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("unexpected response format: no choices")
	}
	raw := bytes.TrimSpace(result.Choices[0].Message.Content)
	var content string
	if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &content) != nil {
		return "", fmt.Errorf("unexpected response format: content is not a string")
	}
	return content, nil
}

// CreateChatCompletionStream opens a streaming completion. The caller must
// close the returned iterator.
func (c *Client) CreateChatCompletionStream(ctx context.Context, request ChatRequest) (*StreamIterator, error) {
	resp, err := c.send(ctx, c.payload(request, true))
	if err != nil {
		return nil, err
	}
	return newStreamIterator(resp.Body, c.includeReasoning), nil
}

func (c *Client) send(ctx context.Context, payload *Request) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if payload.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return nil, providers.NewError(resp.StatusCode, string(data))
	}
	return resp, nil
}

// openRouterTransport is a custom http.RoundTripper that adds OpenRouter-specific headers
type openRouterTransport struct {
	underlying http.RoundTripper
	siteURL    string
	siteName   string
}

func (t *openRouterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL != "" || t.siteName != "" {
		req = req.Clone(req.Context())
		if t.siteURL != "" {
			req.Header.Set("HTTP-Referer", t.siteURL)
		}
		if t.siteName != "" {
			req.Header.Set("X-Title", t.siteName)
		}
	}
	transport := t.underlying
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(req)
}
