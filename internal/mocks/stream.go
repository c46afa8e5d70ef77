package mocks

import "github.com/deepnoodle-ai/genner/llm"

var _ llm.TokenStream = &TokenStream{}

// TokenStream replays a fixed sequence of tokens and then reports Err.
type TokenStream struct {
	tokens  []llm.Token
	err     error
	index   int
	current llm.Token

	// Emitted counts the tokens handed out by Next.
	Emitted int

	// Closed counts calls to Close.
	Closed int
}

func NewTokenStream(tokens ...llm.Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// MainTokens builds main-channel tokens from texts.
func MainTokens(texts ...string) []llm.Token {
	tokens := make([]llm.Token, len(texts))
	for i, text := range texts {
		tokens[i] = llm.Token{Text: text, Channel: llm.Main}
	}
	return tokens
}

// WithErr makes the stream report err once the tokens are exhausted.
func (s *TokenStream) WithErr(err error) *TokenStream {
	s.err = err
	return s
}

func (s *TokenStream) Next() bool {
	if s.index >= len(s.tokens) {
		return false
	}
	s.current = s.tokens[s.index]
	s.index++
	s.Emitted++
	return true
}

func (s *TokenStream) Token() llm.Token {
	return s.current
}

func (s *TokenStream) Err() error {
	if s.index < len(s.tokens) {
		return nil
	}
	return s.err
}

func (s *TokenStream) Close() error {
	s.Closed++
	return nil
}
