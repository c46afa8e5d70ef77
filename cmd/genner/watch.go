package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/deepnoodle-ai/genner"
	"github.com/deepnoodle-ai/genner/config"
	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/genner/log"
	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/fsnotify/fsnotify"
	"github.com/pmezard/go-difflib/difflib"
)

// WatchOptions holds configuration for the watch command
type WatchOptions struct {
	Conversation   string
	Patterns       []string
	IgnorePatterns []string
	Debounce       time.Duration
	Mode           string
	Tags           []string
	Context        int
}

// FileWatcher regenerates output whenever a watched file changes and prints
// the difference to the previous generation.
type FileWatcher struct {
	options  WatchOptions
	watcher  *fsnotify.Watcher
	logger   log.Logger
	out      io.Writer
	generate func(ctx context.Context) (string, error)

	mu       sync.Mutex
	lastSeen map[string]time.Time
	previous string
	runs     int
}

func NewFileWatcher(options WatchOptions, generate func(ctx context.Context) (string, error), logger log.Logger, out io.Writer) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FileWatcher{
		options:  options,
		watcher:  watcher,
		logger:   log.OrDefault(logger),
		out:      out,
		generate: generate,
		lastSeen: make(map[string]time.Time),
	}, nil
}

// Start generates once, then regenerates on every matching change until ctx
// is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) error {
	defer fw.watcher.Close()

	if err := fw.addWatchPaths(); err != nil {
		return fmt.Errorf("failed to add watch paths: %w", err)
	}

	fmt.Fprintln(fw.out, headerStyle.Sprint("Watching ", strings.Join(fw.options.Patterns, ", ")))
	fmt.Fprintln(fw.out, mutedStyle.Sprint("Press Ctrl+C to stop..."))
	fw.regenerate(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if fw.shouldHandle(event, time.Now()) {
				fw.regenerate(ctx)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) addWatchPaths() error {
	watchedDirs := make(map[string]bool)
	for _, pattern := range fw.options.Patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			dir := filepath.Dir(match)
			if watchedDirs[dir] {
				continue
			}
			if err := fw.watcher.Add(dir); err != nil {
				fw.logger.Warn("failed to watch directory", "dir", dir, "error", err)
				continue
			}
			fw.logger.Debug("watching directory", "dir", dir)
			watchedDirs[dir] = true
		}
	}
	if len(watchedDirs) == 0 {
		return fmt.Errorf("no directories found to watch for patterns: %s", strings.Join(fw.options.Patterns, ", "))
	}
	return nil
}

// shouldHandle reports whether event is a write or create of a watched,
// non-ignored file outside the debounce window.
func (fw *FileWatcher) shouldHandle(event fsnotify.Event, now time.Time) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if !fw.matches(event.Name) {
		return false
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if last, ok := fw.lastSeen[event.Name]; ok && now.Sub(last) < fw.options.Debounce {
		return false
	}
	fw.lastSeen[event.Name] = now
	return true
}

func (fw *FileWatcher) matches(path string) bool {
	path = filepath.Clean(path)
	for _, pattern := range fw.options.IgnorePatterns {
		if matched, _ := doublestar.PathMatch(pattern, path); matched {
			return false
		}
	}
	for _, pattern := range fw.options.Patterns {
		if matched, _ := doublestar.PathMatch(filepath.Clean(pattern), path); matched {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) regenerate(ctx context.Context) {
	output, err := fw.generate(ctx)
	if err != nil {
		fmt.Fprintln(fw.out, errorStyle.Sprintf("generation failed: %v", err))
		return
	}

	fw.mu.Lock()
	previous, runs := fw.previous, fw.runs
	fw.previous = output
	fw.runs++
	fw.mu.Unlock()

	if runs == 0 {
		fmt.Fprintln(fw.out, output)
		return
	}
	diff := unifiedDiff(previous, output, runs, fw.options.Context)
	if diff == "" {
		fmt.Fprintln(fw.out, mutedStyle.Sprint("(no change)"))
		return
	}
	fmt.Fprint(fw.out, colorizeDiff(diff))
}

// unifiedDiff compares generation run-1 with generation run.
func unifiedDiff(oldContent, newContent string, run, contextLines int) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: fmt.Sprintf("generation-%d", run),
		ToFile:   fmt.Sprintf("generation-%d", run+1),
		Context:  contextLines,
	}
	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("error generating diff: %v\n", err)
	}
	return result
}

func colorizeDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			sb.WriteString(headerStyle.Sprint(line))
		case strings.HasPrefix(line, "+"):
			sb.WriteString(addedStyle.Sprint(line))
		case strings.HasPrefix(line, "-"):
			sb.WriteString(removedStyle.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			sb.WriteString(mutedStyle.Sprint(line))
		default:
			sb.WriteString(line)
		}
	}
	return sb.String()
}

func registerWatchCommand(app *cli.App) {
	app.Command("watch").
		Description("Regenerate from a conversation file whenever watched files change").
		Args("conversation").
		Flags(
			cli.Strings("pattern", "").Help("Additional glob pattern to watch (supports **); repeatable"),
			cli.Strings("ignore", "").Help("Glob pattern to ignore; repeatable"),
			cli.Int("debounce", "").Default(500).Help("Minimum milliseconds between regenerations of one file"),
			cli.String("mode", "").Default("code").Help("What to print: complete, code or list"),
			cli.Strings("tag", "").Help("Scope tag to extract from; repeatable"),
			cli.Int("context", "").Default(3).Help("Lines of context in diffs"),
			cli.Bool("stream", "").Help("Stream tokens to the terminal as they arrive"),
		).
		Run(func(ctx *cli.Context) error {
			parseGlobalFlags(ctx)
			options := WatchOptions{
				Conversation:   ctx.Arg(0),
				Patterns:       append([]string{ctx.Arg(0)}, ctx.Strings("pattern")...),
				IgnorePatterns: ctx.Strings("ignore"),
				Debounce:       time.Duration(ctx.Int("debounce")) * time.Millisecond,
				Mode:           ctx.String("mode"),
				Tags:           ctx.Strings("tag"),
				Context:        ctx.Int("context"),
			}
			params := generationParams{temperature: -1, stream: ctx.Bool("stream"), tags: options.Tags}
			if err := runWatch(options, params); err != nil {
				return cli.Errorf("%v", err)
			}
			return nil
		})
}

func runWatch(options WatchOptions, params generationParams) error {
	sink := newTerminalSink(os.Stderr)
	gen, err := buildGenerator(params, sink)
	if err != nil {
		return err
	}
	generate, err := watchGenerateFunc(gen, options, sink)
	if err != nil {
		return err
	}
	logger := log.New(log.LevelFromString(logLevel))
	fw, err := NewFileWatcher(options, generate, logger, os.Stdout)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return fw.Start(ctx)
}

func watchGenerateFunc(gen *genner.Genner, options WatchOptions, sink *terminalSink) (func(ctx context.Context) (string, error), error) {
	var generate generateFunc
	switch options.Mode {
	case "complete":
		generate = func(ctx context.Context, gen *genner.Genner, conv *llm.Conversation) (string, error) {
			return gen.Complete(ctx, conv)
		}
	case "code", "":
		generate = func(ctx context.Context, gen *genner.Genner, conv *llm.Conversation) (string, error) {
			return generateCode(ctx, gen, conv, options.Tags)
		}
	case "list":
		generate = func(ctx context.Context, gen *genner.Genner, conv *llm.Conversation) (string, error) {
			return generateList(ctx, gen, conv, options.Tags)
		}
	default:
		return nil, fmt.Errorf("unknown mode %q (want complete, code or list)", options.Mode)
	}
	return func(ctx context.Context) (string, error) {
		conv, err := config.LoadConversation(options.Conversation)
		if err != nil {
			return "", err
		}
		output, err := generate(ctx, gen, conv)
		sink.Finish()
		return output, err
	}, nil
}
