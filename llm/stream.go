package llm

import (
	"io"
	"strings"
)

// Channel distinguishes the intermediate "thinking" tokens some providers
// expose from the tokens of the final answer.
type Channel int

const (
	Main Channel = iota
	Reasoning
)

func (c Channel) String() string {
	if c == Reasoning {
		return "reasoning"
	}
	return "main"
}

// Markers forwarded to the sink around the reasoning section of a
// dual-channel stream. They never appear in the returned text.
const (
	ThinkingStartMarker = "<think>\n"
	ThinkingEndMarker   = "</think>\n"
)

// Token is a single piece of text emitted by a provider stream.
type Token struct {
	Text    string
	Channel Channel
}

// TokenStream iterates over the tokens of one streaming session.
type TokenStream interface {
	// Next advances to the next token. It returns false when the stream is
	// complete or an error occurred; the error is available from Err.
	Next() bool

	// Token returns the current token. Only valid after Next returned true.
	Token() Token

	// Err returns the error that stopped the stream, if any.
	Err() error

	// Close releases the underlying resources. Safe to call more than once.
	Close() error
}

// Sink receives tokens as they arrive. It is called inline on the goroutine
// consuming the provider stream, so it must return quickly.
type Sink func(token string)

// WriterSink returns a sink that writes every token to w. Write errors are
// ignored.
func WriterSink(w io.Writer) Sink {
	return func(token string) {
		io.WriteString(w, token)
	}
}

// StreamResult summarizes a drained stream.
type StreamResult struct {
	// Text is the concatenation of the main-channel tokens forwarded.
	Text string

	// Reasoning is the concatenation of the reasoning tokens forwarded.
	Reasoning string

	// Tokens counts the provider tokens forwarded, excluding markers.
	Tokens int

	// Truncated is true when the token cap ended the stream.
	Truncated bool
}

// channelState tracks where a dual-channel stream is, so that each marker is
// emitted exactly once.
type channelState int

const (
	// No reasoning token seen yet.
	stateIdle channelState = iota
	// Reasoning seen, no main token since.
	stateThinking
	// Reasoning closed; nothing more to emit.
	stateAnswering
)

type channelSplitter struct {
	state channelState
	sink  Sink
}

func (s *channelSplitter) observe(channel Channel) {
	switch {
	case s.state == stateIdle && channel == Reasoning:
		s.state = stateThinking
		s.emit(ThinkingStartMarker)
	case s.state == stateThinking && channel == Main:
		s.state = stateAnswering
		s.emit(ThinkingEndMarker)
	}
}

func (s *channelSplitter) emit(marker string) {
	if s.sink != nil {
		s.sink(marker)
	}
}

// Drain consumes a stream, forwarding every token to the sink in stream order
// and accumulating main-channel text. When maxTokens is positive, Drain stops
// after forwarding that many tokens regardless of what the provider would
// still send. The stream is closed on every return path.
//
// A nil sink is allowed; tokens are then only accumulated.
func Drain(stream TokenStream, sink Sink, maxTokens int) (*StreamResult, error) {
	defer stream.Close()

	var text, reasoning strings.Builder
	splitter := channelSplitter{sink: sink}
	result := &StreamResult{}

	for stream.Next() {
		token := stream.Token()
		splitter.observe(token.Channel)
		if token.Channel == Main {
			text.WriteString(token.Text)
		} else {
			reasoning.WriteString(token.Text)
		}
		if sink != nil {
			sink(token.Text)
		}
		result.Tokens++
		if maxTokens > 0 && result.Tokens >= maxTokens {
			result.Truncated = true
			break
		}
	}
	if !result.Truncated {
		if err := stream.Err(); err != nil {
			return nil, err
		}
	}
	result.Text = text.String()
	result.Reasoning = reasoning.String()
	return result, nil
}
