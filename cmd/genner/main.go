package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/wonton/cli"
)

var (
	configPath    string
	generatorName string
	llmProvider   string
	llmModel      string
	logLevel      string
)

func main() {
	app := cli.New("genner").
		Description("Generate text, code blocks and lists from LLM backends").
		Version("0.1.0").
		GlobalFlags(
			cli.String("config", "c").
				Env("GENNER_CONFIG").
				Help("Generator config file (YAML or JSON)"),
			cli.String("generator", "g").
				Help("Name of the configured generator to use (defaults to the first)"),
			cli.String("provider", "").
				Env("GENNER_PROVIDER").
				Help("Provider to use when no config file is given (e.g. 'anthropic', 'deepseek', 'openrouter', 'ollama', 'qwen', 'google')"),
			cli.String("model", "m").
				Env("GENNER_MODEL").
				Help("Model to use when no config file is given"),
			cli.String("log-level", "").
				Default("warn").
				Help("Log level to use (debug, info, warn, error)"),
		)

	registerCompleteCommand(app)
	registerCodeCommand(app)
	registerListCommand(app)
	registerWatchCommand(app)
	registerProvidersCommand(app)

	if err := app.Execute(); err != nil {
		if cli.IsHelpRequested(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

func parseGlobalFlags(ctx *cli.Context) {
	configPath = ctx.String("config")
	generatorName = ctx.String("generator")
	llmProvider = ctx.String("provider")
	llmModel = ctx.String("model")
	logLevel = ctx.String("log-level")
}
