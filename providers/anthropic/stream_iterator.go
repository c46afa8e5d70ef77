package anthropic

import (
	"fmt"
	"io"
	"sync"

	"github.com/deepnoodle-ai/genner/llm"
)

var _ llm.TokenStream = &StreamIterator{}

// StreamIterator turns the Messages event stream into main-channel tokens.
// Only text deltas produce tokens; thinking and tool deltas are skipped.
type StreamIterator struct {
	reader    *llm.ServerSentEventsReader[StreamEvent]
	err       error
	current   llm.Token
	closeOnce sync.Once
	closeErr  error
}

func newStreamIterator(body io.ReadCloser) *StreamIterator {
	return &StreamIterator{
		reader: llm.NewServerSentEventsReader[StreamEvent](body),
	}
}

func (s *StreamIterator) Next() bool {
	if s.err != nil {
		return false
	}
	for {
		event, ok := s.reader.Next()
		if !ok {
			s.err = s.reader.Err()
			return false
		}
		switch event.Type {
		case "error":
			if event.Error != nil {
				s.err = fmt.Errorf("stream error (%s): %s", event.Error.Type, event.Error.Message)
			} else {
				s.err = fmt.Errorf("stream error")
			}
			return false
		case "message_stop":
			return false
		case "content_block_delta":
			if event.Delta == nil || event.Delta.Type != "text_delta" || event.Delta.Text == "" {
				continue
			}
			s.current = llm.Token{Text: event.Delta.Text, Channel: llm.Main}
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
