package ollama

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/deepnoodle-ai/genner/llm"
)

var _ llm.TokenStream = &StreamIterator{}

// StreamIterator reads newline-delimited chat chunks.
type StreamIterator struct {
	body      io.ReadCloser
	decoder   *json.Decoder
	current   llm.Token
	err       error
	done      bool
	closeOnce sync.Once
	closeErr  error
}

func newStreamIterator(body io.ReadCloser) *StreamIterator {
	return &StreamIterator{body: body, decoder: json.NewDecoder(body)}
}

func (s *StreamIterator) Next() bool {
	for !s.done && s.err == nil {
		var chunk Chunk
		if err := s.decoder.Decode(&chunk); err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = fmt.Errorf("error decoding stream chunk: %w", err)
			}
			return false
		}
		if chunk.Error != "" {
			s.err = fmt.Errorf("ollama error: %s", chunk.Error)
			return false
		}
		s.done = chunk.Done
		if chunk.Message.Content == "" {
			continue
		}
		s.current = llm.Token{Text: chunk.Message.Content, Channel: llm.Main}
		return true
	}
	return false
}

func (s *StreamIterator) Token() llm.Token {
	return s.current
}

func (s *StreamIterator) Err() error {
	return s.err
}

func (s *StreamIterator) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.body.Close() })
	return s.closeErr
}
