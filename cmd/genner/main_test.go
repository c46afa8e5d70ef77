package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deepnoodle-ai/genner/internal/mocks"
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestTerminalSink(t *testing.T) {
	var buf bytes.Buffer
	sink := newTerminalSink(&buf)
	for _, token := range []string{llm.ThinkingStartMarker, "hmm", llm.ThinkingEndMarker, "answer"} {
		sink.Write(token)
	}
	assert.True(t, sink.wrote)
	sink.Finish()
	assert.Equal(t, "<think>\nhmm</think>\nanswer\n", buf.String())
	assert.False(t, sink.reasoning)

	buf.Reset()
	sink.Finish()
	assert.Equal(t, "", buf.String())
}

func TestTerminalSinkTracksReasoning(t *testing.T) {
	sink := newTerminalSink(&bytes.Buffer{})
	sink.Write(llm.ThinkingStartMarker)
	assert.True(t, sink.reasoning)
	sink.Write(llm.ThinkingEndMarker)
	assert.False(t, sink.reasoning)
}

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "print(1)", formatCode([]string{"print(1)\n"}, nil))
	assert.Equal(t, "# a\nx = 1\n# b\ny = 2", formatCode([]string{"x = 1\n", "y = 2\n"}, []string{"a", "b"}))
}

func TestFormatLists(t *testing.T) {
	assert.Equal(t, "- a\n- b", formatLists([][]string{{"a", "b"}}, nil))
	assert.Equal(t, "# x\n- a\n\n# y\n- b", formatLists([][]string{{"a"}, {"b"}}, []string{"x", "y"}))
}

func TestTagsOrDefault(t *testing.T) {
	assert.Equal(t, []string{""}, tagsOrDefault(nil))
	assert.Equal(t, []string{"a"}, tagsOrDefault([]string{"a"}))
}

func TestGeneratorConfigFromFlags(t *testing.T) {
	configPath, llmProvider, llmModel, logLevel = "", "ollama", "llama3.1:8b", "warn"
	t.Cleanup(func() { configPath, llmProvider, llmModel = "", "", "" })

	cfg, err := generatorConfig(generationParams{temperature: 0.3, maxTokens: 50, stream: true})
	assert.NoError(t, err)
	assert.Len(t, cfg.Generators, 1)
	g := cfg.Generators[0]
	assert.Equal(t, "ollama", g.Provider)
	assert.Equal(t, 50, g.MaxTokens)
	assert.Equal(t, 0.3, *g.Temperature)
	assert.True(t, g.Stream)

	llmProvider, llmModel = "", ""
	_, err = generatorConfig(generationParams{temperature: -1})
	assert.Error(t, err)
}

func TestGeneratorConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genners.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(`
generators:
  - name: claude
    model: claude-sonnet-4-5
  - name: qwen
    model: qwen2.5-coder:7b
    language: go
`), 0o644))
	configPath = path
	t.Cleanup(func() { configPath, generatorName = "", "" })

	cfg, err := generatorConfig(generationParams{temperature: -1})
	assert.NoError(t, err)
	assert.Equal(t, "claude", cfg.Generators[0].Name)
	assert.True(t, cfg.Generators[0].Temperature == nil)

	generatorName = "qwen"
	cfg, err = generatorConfig(generationParams{temperature: -1, maxTokens: 9})
	assert.NoError(t, err)
	assert.Equal(t, "go", cfg.Generators[0].Language)
	assert.Equal(t, 9, cfg.Generators[0].MaxTokens)

	generatorName = "missing"
	_, err = generatorConfig(generationParams{temperature: -1})
	assert.ErrorContains(t, err, "not found")
}

func TestRenderProviders(t *testing.T) {
	var buf bytes.Buffer
	err := renderProviders(&buf, []providers.ProviderEntry{
		{Name: "anthropic", Description: "Claude"},
		{Name: "ollama", Description: "Local models"},
	})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "| anthropic | Claude       |")
	assert.Contains(t, buf.String(), "| Provider  | Description  |")
}

func TestUnifiedDiff(t *testing.T) {
	diff := unifiedDiff("a\nb\n", "a\nc\n", 1, 1)
	assert.Contains(t, diff, "--- generation-1")
	assert.Contains(t, diff, "+++ generation-2")
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+c\n")
	assert.Equal(t, "", unifiedDiff("same\n", "same\n", 1, 3))
	assert.Equal(t, diff, colorizeDiff(diff))
}

func newTestWatcher(options WatchOptions, generate func(ctx context.Context) (string, error), out *bytes.Buffer) *FileWatcher {
	return &FileWatcher{
		options:  options,
		logger:   mocks.NewLogger(),
		out:      out,
		generate: generate,
		lastSeen: make(map[string]time.Time),
	}
}

func TestWatcherShouldHandle(t *testing.T) {
	fw := newTestWatcher(WatchOptions{
		Patterns:       []string{"prompts/**/*.yaml"},
		IgnorePatterns: []string{"prompts/tmp/**"},
		Debounce:       time.Second,
	}, nil, &bytes.Buffer{})
	now := time.Now()

	write := func(name string) fsnotify.Event { return fsnotify.Event{Name: name, Op: fsnotify.Write} }
	assert.True(t, fw.shouldHandle(write("prompts/a/conv.yaml"), now))
	assert.False(t, fw.shouldHandle(write("prompts/a/conv.yaml"), now.Add(100*time.Millisecond)))
	assert.True(t, fw.shouldHandle(write("prompts/a/conv.yaml"), now.Add(2*time.Second)))
	assert.False(t, fw.shouldHandle(write("prompts/tmp/conv.yaml"), now))
	assert.False(t, fw.shouldHandle(write("other/conv.yaml"), now))
	assert.False(t, fw.shouldHandle(fsnotify.Event{Name: "prompts/b.yaml", Op: fsnotify.Remove}, now))
}

func TestWatcherRegenerate(t *testing.T) {
	outputs := []string{"x = 1\ny = 2", "x = 1\ny = 2", "x = 1\ny = 3"}
	var calls int
	generate := func(ctx context.Context) (string, error) {
		if calls >= len(outputs) {
			return "", errors.New("backend down")
		}
		calls++
		return outputs[calls-1], nil
	}
	var out bytes.Buffer
	fw := newTestWatcher(WatchOptions{Context: 1}, generate, &out)

	fw.regenerate(context.Background())
	assert.Equal(t, "x = 1\ny = 2\n", out.String())

	out.Reset()
	fw.regenerate(context.Background())
	assert.Equal(t, "(no change)\n", out.String())

	out.Reset()
	fw.regenerate(context.Background())
	assert.Contains(t, out.String(), "-y = 2")
	assert.Contains(t, out.String(), "+y = 3")

	out.Reset()
	fw.regenerate(context.Background())
	assert.True(t, strings.HasPrefix(out.String(), "generation failed: backend down"))
}

func TestWatchGenerateFuncRejectsUnknownMode(t *testing.T) {
	_, err := watchGenerateFunc(nil, WatchOptions{Mode: "poem"}, newTerminalSink(&bytes.Buffer{}))
	assert.ErrorContains(t, err, "unknown mode")
}
