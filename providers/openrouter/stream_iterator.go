package openrouter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/genner/llm"
)

var _ llm.TokenStream = &StreamIterator{}

var reasoningCleaner = strings.NewReplacer("</s>", "", "<response>", "", "</thinking>", "")

// StreamIterator yields reasoning and main tokens from an OpenRouter stream.
// Lines that fail to decode are skipped. When a delta carries both fields,
// only the reasoning is reported.
type StreamIterator struct {
	reader           *llm.ServerSentEventsReader[StreamChunk]
	includeReasoning bool
	current          llm.Token
	err              error
	closeOnce        sync.Once
	closeErr         error
}

func newStreamIterator(body io.ReadCloser, includeReasoning bool) *StreamIterator {
	return &StreamIterator{
		reader:           llm.NewServerSentEventsReader[StreamChunk](body).WithLenientDecoding(),
		includeReasoning: includeReasoning,
	}
}

func (s *StreamIterator) Next() bool {
	if s.err != nil {
		return false
	}
	for {
		chunk, ok := s.reader.Next()
		if !ok {
			s.err = s.reader.Err()
			return false
		}
		if chunk.Error != nil {
			s.err = fmt.Errorf("openrouter stream error (%d): %s", chunk.Error.Code, chunk.Error.Message)
			return false
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta
		if delta.Reasoning != nil && s.includeReasoning {
			text := reasoningCleaner.Replace(*delta.Reasoning)
			if text == "" {
				continue
			}
			s.current = llm.Token{Text: text, Channel: llm.Reasoning}
			return true
		}
		if delta.Content != nil && *delta.Content != "" {
			s.current = llm.Token{Text: *delta.Content, Channel: llm.Main}
			return true
		}
	}
}

func (s *StreamIterator) Token() llm.Token {
	return s.current
}

func (s *StreamIterator) Err() error {
	return s.err
}

func (s *StreamIterator) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.reader.Close() })
	return s.closeErr
}
