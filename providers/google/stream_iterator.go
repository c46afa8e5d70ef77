package google

import (
	"iter"

	"github.com/deepnoodle-ai/genner/llm"
	"google.golang.org/genai"
)

var _ llm.TokenStream = &StreamIterator{}

// StreamIterator pulls responses from a genai content stream and yields one
// token per non-empty text part. Thought parts are dropped.
type StreamIterator struct {
	next    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	pending []llm.Token
	current llm.Token
	err     error
}

func newStreamIterator(seq iter.Seq2[*genai.GenerateContentResponse, error]) *StreamIterator {
	next, stop := iter.Pull2(seq)
	return &StreamIterator{next: next, stop: stop}
}

func (s *StreamIterator) Next() bool {
	for len(s.pending) == 0 {
		if s.err != nil {
			return false
		}
		resp, err, ok := s.next()
		if !ok {
			return false
		}
		if err != nil {
			s.err = err
			return false
		}
		for _, part := range candidateParts(resp) {
			if part.Text == "" || part.Thought {
				continue
			}
			s.pending = append(s.pending, llm.Token{Text: part.Text, Channel: llm.Main})
		}
	}
	s.current = s.pending[0]
	s.pending = s.pending[1:]
	return true
}

func (s *StreamIterator) Token() llm.Token {
	return s.current
}

func (s *StreamIterator) Err() error {
	return s.err
}

func (s *StreamIterator) Close() error {
	s.stop()
	return nil
}
