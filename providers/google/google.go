package google

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

var (
	DefaultName      = "gemini"
	DefaultModel     = ModelGemini25Flash
	DefaultMaxTokens = 4096
)

var (
	_ llm.Completer    = &Provider{}
	_ llm.Configurable = &Provider{}
)

// contentGenerator is the subset of *genai.Models used by the provider.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Provider calls Gemini through the genai SDK. Streamed chunks are forwarded
// without a local token cap and an empty answer is returned as is.
type Provider struct {
	name        string
	apiKey      string
	projectID   string
	location    string
	endpoint    string
	model       string
	maxTokens   int
	temperature *float64
	httpClient  *http.Client
	sink        llm.Sink
	logger      log.Logger

	mutex     sync.Mutex
	generator contentGenerator
}

func New(opts ...Option) *Provider {
	p := &Provider{
		name:      DefaultName,
		apiKey:    providers.Getenv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.httpClient == nil {
		p.httpClient = providers.NewHTTPClient(providers.DefaultConnectTimeout)
	}
	p.logger = log.OrDefault(p.logger)
	return p
}

func (p *Provider) initGenerator(ctx context.Context) (contentGenerator, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.generator != nil {
		return p.generator, nil
	}
	config := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.projectID != "" {
		config.APIKey = ""
		config.Backend = genai.BackendVertexAI
		config.Project = p.projectID
		config.Location = p.location
	}
	if p.endpoint != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: p.endpoint}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create google genai client: %w", err)
	}
	p.generator = client.Models
	return p.generator, nil
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
		return "", llm.NewError(llm.ErrCompletion, "google.complete", err)
	}
	if err := conversation.Validate(); err != nil {
		return "", llm.NewError(llm.ErrCompletion, "google.complete", err)
	}
	generator, err := p.initGenerator(ctx)
	if err != nil {
		return "", llm.AsCompletionError("google.complete", err)
	}

	contents := messagesToContents(conversation.Messages())
	config := p.generateConfig()

	logger := p.logger.With("generator", p.name, "call_id", uuid.NewString())
	logger.Debug("completion started", "model", p.model, "messages", len(contents), "stream", p.sink != nil)

	var text string
	if p.sink != nil {
		stream := newStreamIterator(generator.GenerateContentStream(ctx, p.model, contents, config))
		var result *llm.StreamResult
		result, err = llm.Drain(stream, p.sink, 0)
		if result != nil {
			text = result.Text
		}
	} else {
		var resp *genai.GenerateContentResponse
		resp, err = generator.GenerateContent(ctx, p.model, contents, config)
		if err == nil {
			text = responseText(resp)
		}
	}
	if err != nil {
		logger.Warn("completion failed", "error", err)
		return "", llm.AsCompletionError("google.complete", err)
	}
	logger.Debug("completion finished", "chars", len(text))
	return text, nil
}

func (p *Provider) generateConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(p.maxTokens),
	}
	if p.temperature != nil {
		temperature := float32(*p.temperature)
		config.Temperature = &temperature
	}
	return config
}

// messagesToContents maps assistant messages to the "model" role and every
// other message, system included, to "user".
func messagesToContents(messages []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, message := range messages {
		role := genai.RoleUser
		if message.Role == llm.Assistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(message.Content, genai.Role(role)))
	}
	return contents
}

// responseText concatenates the answer parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, part := range candidateParts(resp) {
		if !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func candidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}
