package llm

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

// ServerSentEventsReader decodes the JSON payloads of a server-sent events
// stream. "event:" lines, comments and other metadata are skipped; a
// "[DONE]" payload ends the stream.
type ServerSentEventsReader[T any] struct {
	body    io.ReadCloser
	reader  *bufio.Reader
	err     error
	lenient bool
}

func NewServerSentEventsReader[T any](stream io.ReadCloser) *ServerSentEventsReader[T] {
	return &ServerSentEventsReader[T]{
		body:   stream,
		reader: bufio.NewReader(stream),
	}
}

// WithLenientDecoding makes the reader skip payloads that fail to decode
// instead of stopping with an error.
func (s *ServerSentEventsReader[T]) WithLenientDecoding() *ServerSentEventsReader[T] {
	s.lenient = true
	return s
}

func (s *ServerSentEventsReader[T]) Err() error {
	return s.err
}

// Close closes the underlying body.
func (s *ServerSentEventsReader[T]) Close() error {
	return s.body.Close()
}

func (s *ServerSentEventsReader[T]) Next() (T, bool) {
	var zero T
	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil && (err != io.EOF || len(bytes.TrimSpace(line)) == 0) {
			if err != io.EOF {
				s.err = err
			}
			return zero, false
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		// Comment lines such as ": OPENROUTER PROCESSING"
		if bytes.HasPrefix(line, []byte(":")) {
			continue
		}

		line = bytes.TrimSpace(bytes.TrimPrefix(line, []byte("data:")))

		if bytes.Equal(line, []byte("[DONE]")) {
			return zero, false
		}

		// Skip non-JSON lines (like "event: " lines or other SSE metadata)
		if !bytes.HasPrefix(line, []byte("{")) {
			continue
		}

		var event T
		if err := json.Unmarshal(line, &event); err != nil {
			if s.lenient {
				continue
			}
			s.err = err
			return zero, false
		}
		return event, true
	}
}
