package llm

import (
	"fmt"
	"strings"
)

// Role indicates the role of a message in a conversation. Either "user",
// "assistant", or "system".
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case User, Assistant, System:
		return true
	}
	return false
}

// Message is a single turn in a conversation. Messages are values and are
// never modified once created.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// NewSystemMessage returns a system message with the given text.
func NewSystemMessage(text string) Message {
	return Message{Role: System, Content: text}
}

// NewUserMessage returns a user message with the given text.
func NewUserMessage(text string) Message {
	return Message{Role: User, Content: text}
}

// NewAssistantMessage returns an assistant message with the given text.
func NewAssistantMessage(text string) Message {
	return Message{Role: Assistant, Content: text}
}

// Conversation is an ordered sequence of messages. The order is the dialogue
// order. A Conversation is immutable: Append returns a new value and leaves
// the receiver untouched, so one conversation may be shared between
// concurrent calls.
type Conversation struct {
	messages []Message
}

// NewConversation returns a conversation holding the given messages in order.
func NewConversation(messages ...Message) *Conversation {
	copied := make([]Message, len(messages))
	copy(copied, messages)
	return &Conversation{messages: copied}
}

// Append returns a new conversation with the given messages added at the end.
func (c *Conversation) Append(messages ...Message) *Conversation {
	combined := make([]Message, 0, c.Len()+len(messages))
	combined = append(combined, c.Messages()...)
	combined = append(combined, messages...)
	return &Conversation{messages: combined}
}

// Concat returns a new conversation with the messages of other following the
// messages of c.
func (c *Conversation) Concat(other *Conversation) *Conversation {
	return c.Append(other.Messages()...)
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages)
}

// Messages returns a copy of the messages in dialogue order.
func (c *Conversation) Messages() []Message {
	if c == nil {
		return nil
	}
	copied := make([]Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// At returns the message at index i.
func (c *Conversation) At(i int) Message {
	return c.messages[i]
}

// Last returns the final message and true, or false if the conversation is
// empty.
func (c *Conversation) Last() (Message, bool) {
	if c.Len() == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Validate checks that the conversation is non-empty and that every message
// has a known role.
func (c *Conversation) Validate() error {
	if c.Len() == 0 {
		return fmt.Errorf("no messages provided")
	}
	for i, message := range c.messages {
		if !message.Role.Valid() {
			return fmt.Errorf("unknown message role %q (index %d)", message.Role, i)
		}
	}
	return nil
}

// SplitSystem separates a mandatory leading system message from the rest of
// the conversation. It fails with a CompletionError when the conversation is
// empty or the first message is not a system message.
func (c *Conversation) SplitSystem() (Message, []Message, error) {
	if c.Len() == 0 {
		return Message{}, nil, NewError(ErrCompletion, "conversation.split_system",
			fmt.Errorf("no messages provided"))
	}
	first := c.messages[0]
	if first.Role != System {
		return Message{}, nil, NewError(ErrCompletion, "conversation.split_system",
			fmt.Errorf("first message has role %q, expected %q", first.Role, System))
	}
	rest := make([]Message, len(c.messages)-1)
	copy(rest, c.messages[1:])
	return first, rest, nil
}

// String renders the conversation as "role: content" lines, mainly for
// debugging and logging.
func (c *Conversation) String() string {
	var sb strings.Builder
	for i, message := range c.Messages() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(string(message.Role))
		sb.WriteString(": ")
		sb.WriteString(message.Content)
	}
	return sb.String()
}
