package config

import (
	"fmt"

	"github.com/deepnoodle-ai/genner/llm"
)

// LoadConversation reads a conversation from a YAML or JSON file.
func LoadConversation(path string) (*llm.Conversation, error) {
	var file ConversationFile
	if err := decodeFile(path, &file); err != nil {
		return nil, err
	}
	return file.Conversation()
}

// Conversation converts the file form into a validated conversation.
func (f ConversationFile) Conversation() (*llm.Conversation, error) {
	messages := make([]llm.Message, 0, len(f.Messages))
	for _, m := range f.Messages {
		messages = append(messages, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	conversation := llm.NewConversation(messages...)
	if err := conversation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid conversation: %w", err)
	}
	return conversation, nil
}
