package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/genner"
	"github.com/deepnoodle-ai/genner/internal/table"
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/providers"
	"github.com/deepnoodle-ai/wonton/cli"
)

func registerCompleteCommand(app *cli.App) {
	registerGenerationCommand(app, "complete", "Print the raw completion of a conversation",
		func(ctx *cli.Context, params generationParams) error {
			return runGeneration(ctx, params, func(goCtx context.Context, gen *genner.Genner, conv *llm.Conversation) (string, error) {
				return gen.Complete(goCtx, conv)
			})
		})
}

func registerCodeCommand(app *cli.App) {
	registerGenerationCommand(app, "code", "Generate and print fenced code blocks, one per scope tag",
		func(ctx *cli.Context, params generationParams) error {
			return runGeneration(ctx, params, func(goCtx context.Context, gen *genner.Genner, conv *llm.Conversation) (string, error) {
				return generateCode(goCtx, gen, conv, params.tags)
			})
		})
}

func registerListCommand(app *cli.App) {
	registerGenerationCommand(app, "list", "Generate and print lists, one per scope tag",
		func(ctx *cli.Context, params generationParams) error {
			return runGeneration(ctx, params, func(goCtx context.Context, gen *genner.Genner, conv *llm.Conversation) (string, error) {
				return generateList(goCtx, gen, conv, params.tags)
			})
		})
}

func registerProvidersCommand(app *cli.App) {
	app.Command("providers").
		Description("List registered providers").
		NoArgs().
		Run(func(ctx *cli.Context) error {
			parseGlobalFlags(ctx)
			return renderProviders(os.Stdout, providers.DefaultRegistry().Entries())
		})
}

type generateFunc func(ctx context.Context, gen *genner.Genner, conv *llm.Conversation) (string, error)

func runGeneration(ctx *cli.Context, params generationParams, generate generateFunc) error {
	conv, err := loadConversation(ctx, params)
	if err != nil {
		return err
	}
	sink := newTerminalSink(os.Stderr)
	gen, err := buildGenerator(params, sink)
	if err != nil {
		return err
	}
	output, err := generate(context.Background(), gen, conv)
	sink.Finish()
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}

// tagsOrDefault returns the tags, or a single whole-text scope when none
// were given.
func tagsOrDefault(tags []string) []string {
	if len(tags) == 0 {
		return []string{""}
	}
	return tags
}

func generateCode(ctx context.Context, gen *genner.Genner, conv *llm.Conversation, tags []string) (string, error) {
	result, err := gen.GenerateCode(ctx, conv, tagsOrDefault(tags)...)
	if err != nil {
		return "", err
	}
	if !result.HasCode() {
		fmt.Fprintln(os.Stderr, errorStyle.Sprintf("no code extracted: %v", result.Cause))
		return result.Raw, nil
	}
	return formatCode(result.Code, tags), nil
}

func generateList(ctx context.Context, gen *genner.Genner, conv *llm.Conversation, tags []string) (string, error) {
	result, err := gen.GenerateList(ctx, conv, tagsOrDefault(tags)...)
	if err != nil {
		return "", err
	}
	return formatLists(result.Items, tags), nil
}

func formatCode(blocks []string, tags []string) string {
	if len(blocks) == 1 {
		return strings.TrimRight(blocks[0], "\n")
	}
	var sb strings.Builder
	for i, block := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(headerStyle.Sprintf("# %s", tags[i]))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(block, "\n"))
	}
	return sb.String()
}

func formatLists(lists [][]string, tags []string) string {
	var sb strings.Builder
	for i, items := range lists {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(lists) > 1 {
			sb.WriteString(headerStyle.Sprintf("# %s", tags[i]))
			sb.WriteString("\n")
		}
		for _, item := range items {
			sb.WriteString("- ")
			sb.WriteString(item)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderProviders(out io.Writer, entries []providers.ProviderEntry) error {
	w := table.NewWriter(out)
	w.SetCellLimit(60)
	w.SetHeader("Provider", "Description")
	for _, entry := range entries {
		w.Append(entry.Name, entry.Description)
	}
	return w.Render()
}
