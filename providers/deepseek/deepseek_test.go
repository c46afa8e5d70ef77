package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/deepnoodle-ai/genner/providers/openrouter"
	"github.com/deepnoodle-ai/wonton/assert"
)

func conversation() *llm.Conversation {
	return llm.NewConversation(
		llm.NewSystemMessage("Answer with a yaml list."),
		llm.NewUserMessage("two letters"),
	)
}

func chunk(content any) string {
	data, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion.chunk",
		"created": 1,
		"model":   "deepseek-chat",
		"choices": []map[string]any{{
			"index":         0,
			"delta":         map[string]any{"content": content},
			"finish_reason": nil,
		}},
	})
	return fmt.Sprintf("data: %s\n\n", data)
}

func openAIServer(t *testing.T, body string, requests *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		var params map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		if params["stream"] == true {
			w.Header().Set("Content-Type", "text/event-stream")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		fmt.Fprint(w, body)
	}))
}

func collect(tokens *[]string) llm.Sink {
	return func(token string) {
		*tokens = append(*tokens, token)
	}
}

func TestOpenAITransportStreamTokenCap(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 10; i++ {
		body.WriteString(chunk(fmt.Sprintf("t%d ", i)))
	}
	body.WriteString("data: [DONE]\n\n")
	server := openAIServer(t, body.String(), nil)
	defer server.Close()

	var forwarded []string
	provider := New(
		WithEndpoint(server.URL),
		WithAPIKey("k"),
		WithMaxTokens(5),
		WithSink(collect(&forwarded)),
	)
	text, err := provider.Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Len(t, forwarded, 5)
	assert.Equal(t, "t0 t1 t2 t3 t4 ", text)
	assert.Equal(t, strings.Join(forwarded, ""), text)
}

func TestOpenAITransportFiltersNonTextDeltas(t *testing.T) {
	body := chunk(nil) + chunk("") + chunk("- a\n") + chunk(nil) + chunk("- b\n") + "data: [DONE]\n\n"
	server := openAIServer(t, body, nil)
	defer server.Close()

	var forwarded []string
	provider := New(WithEndpoint(server.URL), WithAPIKey("k"), WithSink(collect(&forwarded)))
	text, err := provider.Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Equal(t, []string{"- a\n", "- b\n"}, forwarded)
	assert.Equal(t, "- a\n- b\n", text)
}

func TestOpenAITransportBatch(t *testing.T) {
	body := `{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"deepseek-chat",` +
		`"choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`
	server := openAIServer(t, body, nil)
	defer server.Close()

	provider := New(WithEndpoint(server.URL), WithAPIKey("k"))
	text, err := provider.Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "deepseek", provider.Name())
}

func TestOpenAITransportErrorIsNotRetried(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":{"message":"busy"}}`)
	}))
	defer server.Close()

	provider := New(WithEndpoint(server.URL), WithAPIKey("k"))
	_, err := provider.Complete(context.Background(), conversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
	assert.Equal(t, int32(1), requests.Load())
}

func TestEmptyConversationSendsNothing(t *testing.T) {
	var requests atomic.Int32
	server := openAIServer(t, "", &requests)
	defer server.Close()

	provider := New(WithEndpoint(server.URL), WithAPIKey("k"))
	_, err := provider.Complete(context.Background(), llm.NewConversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
	assert.Equal(t, int32(0), requests.Load())
}

func openRouterServer(t *testing.T) *httptest.Server {
	data, err := os.ReadFile("../openrouter/fixtures/reasoning-stream.txt")
	assert.NoError(t, err)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write(data)
	}))
}

func TestOpenRouterTransportMarkers(t *testing.T) {
	server := openRouterServer(t)
	defer server.Close()

	var forwarded []string
	client := openrouter.New(openrouter.WithEndpoint(server.URL), openrouter.WithAPIKey("k"))
	provider := New(
		WithTransport(OpenRouter(client)),
		WithModel(openrouter.ModelDeepSeekR1),
		WithSink(collect(&forwarded)),
	)

	text, err := provider.Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Equal(t, "```yaml\n- a\n- b\n```", text)
	assert.Equal(t, []string{
		llm.ThinkingStartMarker,
		"The user wants",
		" a list.",
		llm.ThinkingEndMarker,
		"```yaml\n",
		"- a\n- b\n",
		"```",
	}, forwarded)
	assert.Equal(t, "openrouter-deepseek/deepseek-r1", provider.Name())
}

func TestOpenRouterTransportIgnoresTokenCap(t *testing.T) {
	server := openRouterServer(t)
	defer server.Close()

	var forwarded []string
	client := openrouter.New(openrouter.WithEndpoint(server.URL))
	provider := New(
		WithTransport(OpenRouter(client)),
		WithMaxTokens(2),
		WithSink(collect(&forwarded)),
	)

	text, err := provider.Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Equal(t, "```yaml\n- a\n- b\n```", text)
	assert.Equal(t, []string{
		llm.ThinkingStartMarker,
		"The user wants",
		" a list.",
		llm.ThinkingEndMarker,
		"```yaml\n",
		"- a\n- b\n",
		"```",
	}, forwarded)
}

func TestCompleteRejectsInvalidSettings(t *testing.T) {
	var requests atomic.Int32
	server := openAIServer(t, chunk("x")+"data: [DONE]\n\n", &requests)
	defer server.Close()

	_, err := New(WithEndpoint(server.URL), WithAPIKey("k"), WithMaxTokens(0)).
		Complete(context.Background(), conversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
	assert.Contains(t, err.Error(), "max tokens must be positive")

	_, err = New(WithEndpoint(server.URL), WithAPIKey("k"), WithTemperature(3)).
		Complete(context.Background(), conversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
	assert.Contains(t, err.Error(), "temperature")
	assert.Equal(t, int32(0), requests.Load())
}

func TestOpenRouterTransportBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request openrouter.Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "deepseek/deepseek-r1", request.Model)
		assert.Equal(t, "system", request.Messages[0].Role)
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":""}}]}`)
	}))
	defer server.Close()

	provider := New(
		WithTransport(OpenRouter(openrouter.New(openrouter.WithEndpoint(server.URL)))),
		WithModel("deepseek/deepseek-r1"),
		WithName("r1"),
	)
	_, err := provider.Complete(context.Background(), conversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
	assert.Contains(t, err.Error(), "empty response")
	assert.Equal(t, "r1", provider.Name())
}

func TestRegistryResolution(t *testing.T) {
	cases := []struct {
		model string
		name  string
	}{
		{"deepseek-reasoner", "deepseek"},
		{"deepseek/deepseek-r1", "openrouter-deepseek/deepseek-r1"},
		{"gpt-4o-mini", "openai"},
		{"grok-4", "grok"},
		{"codestral-latest", "mistral"},
	}
	for _, c := range cases {
		completer, err := providers.Create("", providers.Spec{Model: c.model, APIKey: "k"})
		assert.NoError(t, err)
		assert.Equal(t, c.name, completer.Name())
	}

	_, err := providers.Create("", providers.Spec{Model: "llama-3.3-70b-versatile"})
	assert.ErrorContains(t, err, "no provider matches")

	t.Setenv("GROQ_API_KEY", "k")
	completer, err := providers.Create("", providers.Spec{Model: "llama-3.3-70b-versatile"})
	assert.NoError(t, err)
	assert.Equal(t, "groq", completer.Name())
}

func TestCompatibleBackendUsesItsEndpoint(t *testing.T) {
	body := `{"id":"chatcmpl-3","object":"chat.completion","created":1,"model":"grok-4",` +
		`"choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	t.Setenv("XAI_API_KEY", "xai-key")
	completer, err := providers.Create("grok", providers.Spec{Endpoint: server.URL})
	assert.NoError(t, err)
	settings := completer.(llm.Configurable).Settings()
	assert.Equal(t, "grok-4-fast-reasoning", settings.Model)

	text, err := completer.Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Equal(t, "hi", text)
	assert.Equal(t, "Bearer xai-key", auth)
}
