package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/fatih/color"
)

var (
	reasoningStyle = color.New(color.FgHiBlack, color.Italic)
	markerStyle    = color.New(color.FgMagenta, color.Faint)
	headerStyle    = color.New(color.FgCyan, color.Bold)
	errorStyle     = color.New(color.FgRed)
	mutedStyle     = color.New(color.FgHiBlack)
	addedStyle     = color.New(color.FgGreen)
	removedStyle   = color.New(color.FgRed)
)

// terminalSink writes streamed tokens to a terminal. Text between the
// reasoning markers is dimmed.
type terminalSink struct {
	mu        sync.Mutex
	out       io.Writer
	reasoning bool
	wrote     bool
}

func newTerminalSink(out io.Writer) *terminalSink {
	return &terminalSink{out: out}
}

// Write implements llm.Sink.
func (s *terminalSink) Write(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wrote = true
	switch token {
	case llm.ThinkingStartMarker:
		s.reasoning = true
		fmt.Fprint(s.out, markerStyle.Sprint(token))
	case llm.ThinkingEndMarker:
		s.reasoning = false
		fmt.Fprint(s.out, markerStyle.Sprint(token))
	default:
		if s.reasoning {
			fmt.Fprint(s.out, reasoningStyle.Sprint(token))
		} else {
			fmt.Fprint(s.out, token)
		}
	}
}

// Finish terminates the streamed output with a newline if anything was
// written, and resets the sink for the next call.
func (s *terminalSink) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wrote {
		fmt.Fprintln(s.out)
	}
	s.wrote = false
	s.reasoning = false
}
