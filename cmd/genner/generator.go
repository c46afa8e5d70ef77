package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/genner"
	"github.com/deepnoodle-ai/genner/config"
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/deepnoodle-ai/wonton/cli"

	// Import providers to trigger their init() registration
	_ "github.com/deepnoodle-ai/genner/providers/anthropic"
	_ "github.com/deepnoodle-ai/genner/providers/deepseek"
	_ "github.com/deepnoodle-ai/genner/providers/google"
	_ "github.com/deepnoodle-ai/genner/providers/ollama"
)

// registerGenerationCommand adds a command that takes a conversation and the
// shared generation flags.
func registerGenerationCommand(app *cli.App, name, description string, run func(ctx *cli.Context, params generationParams) error) {
	app.Command(name).
		Description(description).
		Args("conversation?").
		Flags(
			cli.String("system", "s").Help("System prompt (ignored when a conversation file is given)"),
			cli.String("prompt", "p").Help("User prompt, or - to read stdin (ignored when a conversation file is given)"),
			cli.Int("max-tokens", "").Help("Maximum tokens to generate"),
			cli.Float("temperature", "t").Default(-1).Help("Sampling temperature (0.0 to 2.0)"),
			cli.Bool("stream", "").Help("Stream tokens to the terminal as they arrive"),
			cli.String("language", "").Help("Language marker of code fences (default python)"),
			cli.String("data-format", "").Help("Marker of list fences (default yaml)"),
			cli.Strings("tag", "").Help("Scope tag to extract from; repeat for several payloads"),
		).
		Run(func(ctx *cli.Context) error {
			parseGlobalFlags(ctx)
			if err := run(ctx, readGenerationParams(ctx)); err != nil {
				return cli.Errorf("%v", err)
			}
			return nil
		})
}

type generationParams struct {
	system      string
	prompt      string
	maxTokens   int
	temperature float64
	stream      bool
	language    string
	dataFormat  string
	tags        []string
}

func readGenerationParams(ctx *cli.Context) generationParams {
	return generationParams{
		system:      ctx.String("system"),
		prompt:      ctx.String("prompt"),
		maxTokens:   ctx.Int("max-tokens"),
		temperature: ctx.Float64("temperature"),
		stream:      ctx.Bool("stream"),
		language:    ctx.String("language"),
		dataFormat:  ctx.String("data-format"),
		tags:        ctx.Strings("tag"),
	}
}

// generatorConfig returns the generator selected by the global flags, either
// from the config file or built from the provider and model flags.
func generatorConfig(params generationParams) (*config.Config, error) {
	if configPath == "" {
		if llmProvider == "" && llmModel == "" {
			return nil, fmt.Errorf("no generator: pass --config, --provider or --model")
		}
		g := config.Generator{
			Provider:   llmProvider,
			Model:      llmModel,
			MaxTokens:  params.maxTokens,
			Stream:     params.stream,
			Language:   params.language,
			DataFormat: params.dataFormat,
		}
		if params.temperature >= 0 {
			temperature := params.temperature
			g.Temperature = &temperature
		}
		return &config.Config{LogLevel: logLevel, Generators: []config.Generator{g}}, nil
	}

	cfg, err := config.ParseFile(configPath)
	if err != nil {
		return nil, err
	}
	if len(cfg.Generators) == 0 {
		return nil, fmt.Errorf("no generators configured in %s", configPath)
	}
	selected := cfg.Generators[0]
	if generatorName != "" {
		var ok bool
		if selected, ok = cfg.Find(generatorName); !ok {
			return nil, fmt.Errorf("generator %q not found in %s", generatorName, configPath)
		}
	}
	if params.maxTokens > 0 {
		selected.MaxTokens = params.maxTokens
	}
	if params.temperature >= 0 {
		temperature := params.temperature
		selected.Temperature = &temperature
	}
	if params.stream {
		selected.Stream = true
	}
	if params.language != "" {
		selected.Language = params.language
	}
	if params.dataFormat != "" {
		selected.DataFormat = params.dataFormat
	}
	return &config.Config{LogLevel: logLevel, Generators: []config.Generator{selected}}, nil
}

func buildGenerator(params generationParams, sink *terminalSink) (*genner.Genner, error) {
	cfg, err := generatorConfig(params)
	if err != nil {
		return nil, err
	}
	generators, err := config.Build(cfg, sink.Write, config.WithLogger(log.New(log.LevelFromString(logLevel))))
	if err != nil {
		return nil, err
	}
	return generators[0], nil
}

// loadConversation reads the conversation file argument, or assembles one
// from the system and prompt flags. A prompt of "-" is read from stdin.
func loadConversation(ctx *cli.Context, params generationParams) (*llm.Conversation, error) {
	if ctx.NArg() > 0 {
		return config.LoadConversation(ctx.Arg(0))
	}
	prompt := params.prompt
	if prompt == "-" {
		data, err := readStdin()
		if err != nil {
			return nil, err
		}
		prompt = data
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("no conversation: pass a conversation file or --prompt")
	}
	var messages []llm.Message
	if params.system != "" {
		messages = append(messages, llm.NewSystemMessage(params.system))
	}
	messages = append(messages, llm.NewUserMessage(prompt))
	return llm.NewConversation(messages...), nil
}

func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}
