package openrouter

import "encoding/json"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ProviderPreferences struct {
	Order []string `json:"order"`
}

type Request struct {
	Messages         []Message            `json:"messages"`
	Provider         *ProviderPreferences `json:"provider,omitempty"`
	MaxTokens        int                  `json:"max_tokens,omitempty"`
	IncludeReasoning bool                 `json:"include_reasoning"`
	Model            string               `json:"model"`
	Stream           bool                 `json:"stream"`
	Temperature      *float64             `json:"temperature,omitempty"`
}

type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

type Choice struct {
	Message struct {
		Role string `json:"role"`
		// Raw so that a non-string content can be reported.
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type StreamChunk struct {
	Choices []StreamChoice `json:"choices"`
	Error   *APIError      `json:"error,omitempty"`
}

type StreamChoice struct {
	Delta StreamDelta `json:"delta"`
}

type StreamDelta struct {
	Content   *string `json:"content"`
	Reasoning *string `json:"reasoning"`
}
