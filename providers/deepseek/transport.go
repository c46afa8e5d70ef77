package deepseek

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers/openrouter"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Transport is the wire protocol used by the DeepSeek adapter. The set is
// closed: use OpenAI or OpenRouter to obtain one.
type Transport interface {
	kind() string
	// tokenCap is the local cutoff passed to Drain; zero disables it.
	tokenCap(request *transportRequest) int
	stream(ctx context.Context, request *transportRequest) (llm.TokenStream, error)
	complete(ctx context.Context, request *transportRequest) (string, error)
}

type transportRequest struct {
	messages    []llm.Message
	model       string
	maxTokens   int
	temperature *float64
}

// OpenAI returns a transport speaking the OpenAI chat completions protocol,
// as served by api.deepseek.com. Streams are single-channel; deltas without
// text are dropped. SDK retries are disabled.
func OpenAI(opts ...option.RequestOption) Transport {
	opts = append(opts, option.WithMaxRetries(0))
	return &openAITransport{client: openai.NewClient(opts...)}
}

// OpenRouter returns a dual-channel transport backed by an OpenRouter client.
// Reasoning deltas are reported on the reasoning channel.
func OpenRouter(client *openrouter.Client) Transport {
	return &openRouterTransport{client: client}
}

type openAITransport struct {
	client openai.Client
}

func (t *openAITransport) tokenCap(request *transportRequest) int {
	return request.maxTokens
}

func (t *openAITransport) kind() string {
	return "openai"
}

func (t *openAITransport) params(request *transportRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(request.messages))
	for _, message := range request.messages {
		switch message.Role {
		case llm.System:
			messages = append(messages, openai.SystemMessage(message.Content))
		case llm.Assistant:
			messages = append(messages, openai.AssistantMessage(message.Content))
		default:
			messages = append(messages, openai.UserMessage(message.Content))
		}
	}
	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(request.model),
		Messages:  messages,
		MaxTokens: openai.Int(int64(request.maxTokens)),
	}
	if request.temperature != nil {
		params.Temperature = openai.Float(*request.temperature)
	}
	return params
}

func (t *openAITransport) stream(ctx context.Context, request *transportRequest) (llm.TokenStream, error) {
	stream := t.client.Chat.Completions.NewStreaming(ctx, t.params(request))
	// Connection and status errors surface on the first Next.
	return &openAIStream{stream: stream}, nil
}

func (t *openAITransport) complete(ctx context.Context, request *transportRequest) (string, error) {
	response, err := t.client.Chat.Completions.New(ctx, t.params(request))
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("unexpected response format: no choices")
	}
	return response.Choices[0].Message.Content, nil
}

// chunkStream is the subset of the SDK's SSE stream used here.
type chunkStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
	Close() error
}

type openAIStream struct {
	stream  chunkStream
	current llm.Token
}

func (s *openAIStream) Next() bool {
	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		s.current = llm.Token{Text: content, Channel: llm.Main}
		return true
	}
	return false
}

func (s *openAIStream) Token() llm.Token {
	return s.current
}

func (s *openAIStream) Err() error {
	return s.stream.Err()
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}

type openRouterTransport struct {
	client *openrouter.Client
}

// tokenCap is zero: reasoning and answer share one stream, so a local count
// could end the call before the answer starts.
func (t *openRouterTransport) tokenCap(request *transportRequest) int {
	return 0
}

func (t *openRouterTransport) kind() string {
	return "openrouter"
}

func (t *openRouterTransport) chatRequest(request *transportRequest) openrouter.ChatRequest {
	messages := make([]openrouter.Message, 0, len(request.messages))
	for _, message := range request.messages {
		messages = append(messages, openrouter.Message{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}
	return openrouter.ChatRequest{
		Messages:    messages,
		Model:       request.model,
		MaxTokens:   request.maxTokens,
		Temperature: request.temperature,
	}
}

func (t *openRouterTransport) stream(ctx context.Context, request *transportRequest) (llm.TokenStream, error) {
	iterator, err := t.client.CreateChatCompletionStream(ctx, t.chatRequest(request))
	if err != nil {
		return nil, err
	}
	return iterator, nil
}

func (t *openRouterTransport) complete(ctx context.Context, request *transportRequest) (string, error) {
	return t.client.CreateChatCompletion(ctx, t.chatRequest(request))
}
