package anthropic

const (
	ModelClaude37Sonnet20250219 = "claude-3-7-sonnet-20250219"
	ModelClaudeSonnet420250514  = "claude-sonnet-4-20250514"
	ModelClaudeOpus420250514    = "claude-opus-4-20250514"

	// Latest aliases, without date suffix
	ModelClaudeHaiku45  = "claude-haiku-4-5"
	ModelClaudeSonnet45 = "claude-sonnet-4-5"
	ModelClaudeOpus45   = "claude-opus-4-5"
)
