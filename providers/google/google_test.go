package google

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/deepnoodle-ai/wonton/assert"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	responses []*genai.GenerateContentResponse
	err       error
	contents  []*genai.Content
	config    *genai.GenerateContentConfig
	pulled    int
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.contents, f.config = contents, config
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[0], nil
}

func (f *fakeGenerator) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.contents, f.config = contents, config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, resp := range f.responses {
			f.pulled++
			if !yield(resp, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func response(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

func conversation() *llm.Conversation {
	return llm.NewConversation(
		llm.NewSystemMessage("You write Python."),
		llm.NewUserMessage("Print one."),
		llm.NewAssistantMessage("print(1)"),
		llm.NewUserMessage("Now two."),
	)
}

func newTestProvider(generator *fakeGenerator, opts ...Option) *Provider {
	p := New(opts...)
	p.generator = generator
	return p
}

func TestCompleteBatch(t *testing.T) {
	generator := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		response(&genai.Part{Text: "planning", Thought: true}, &genai.Part{Text: "print(2)"}),
	}}
	p := newTestProvider(generator, WithMaxTokens(128), WithTemperature(0.5))

	text, err := p.Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Equal(t, "print(2)", text)

	assert.Len(t, generator.contents, 4)
	assert.Equal(t, "user", generator.contents[0].Role)
	assert.Equal(t, "user", generator.contents[1].Role)
	assert.Equal(t, "model", generator.contents[2].Role)
	assert.Equal(t, "You write Python.", generator.contents[0].Parts[0].Text)
	assert.Equal(t, int32(128), generator.config.MaxOutputTokens)
	assert.Equal(t, float32(0.5), *generator.config.Temperature)
}

func TestCompleteEmptyTextPassesThrough(t *testing.T) {
	generator := &fakeGenerator{responses: []*genai.GenerateContentResponse{{}}}
	text, err := newTestProvider(generator).Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestCompleteError(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("quota exceeded")}
	_, err := newTestProvider(generator).Complete(context.Background(), conversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCompleteStream(t *testing.T) {
	generator := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		response(&genai.Part{Text: "hmm", Thought: true}),
		response(&genai.Part{Text: "print("}),
		response(&genai.Part{Text: ""}),
		response(&genai.Part{Text: "2)"}),
	}}
	var forwarded []string
	p := newTestProvider(generator, WithMaxTokens(1), WithSink(func(token string) {
		forwarded = append(forwarded, token)
	}))

	text, err := p.Complete(context.Background(), conversation())
	assert.NoError(t, err)
	assert.Equal(t, "print(2)", text)
	assert.Equal(t, []string{"print(", "2)"}, forwarded)
	assert.Equal(t, 4, generator.pulled)
}

func TestCompleteStreamError(t *testing.T) {
	generator := &fakeGenerator{
		responses: []*genai.GenerateContentResponse{response(&genai.Part{Text: "partial"})},
		err:       errors.New("stream reset"),
	}
	p := newTestProvider(generator, WithSink(func(string) {}))
	_, err := p.Complete(context.Background(), conversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
}

func TestCompleteRejectsInvalidSettings(t *testing.T) {
	generator := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		response(&genai.Part{Text: "print(2)"}),
	}}
	_, err := newTestProvider(generator, WithMaxTokens(-5)).Complete(context.Background(), conversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
	assert.Contains(t, err.Error(), "max tokens must be positive")
	assert.True(t, generator.contents == nil)
}

func TestCompleteEmptyConversation(t *testing.T) {
	p := newTestProvider(&fakeGenerator{})
	_, err := p.Complete(context.Background(), llm.NewConversation())
	assert.True(t, errors.Is(err, llm.ErrCompletion))
}

func TestFactory(t *testing.T) {
	completer, err := providers.Create("", providers.Spec{Model: ModelGemini25Pro, MaxTokens: 256})
	assert.NoError(t, err)
	assert.Equal(t, DefaultName, completer.Name())
	settings := completer.(llm.Configurable).Settings()
	assert.Equal(t, ModelGemini25Pro, settings.Model)
	assert.Equal(t, 256, settings.MaxTokens)
}
