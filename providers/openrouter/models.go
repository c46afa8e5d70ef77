package openrouter

const (
	// DeepSeek models
	ModelDeepSeekR1     = "deepseek/deepseek-r1"
	ModelDeepSeekR10528 = "deepseek/deepseek-r1-0528"
	ModelDeepSeekV3     = "deepseek/deepseek-chat"

	// Other reasoning models
	ModelQwQ32B       = "qwen/qwq-32b"
	ModelClaudeOpus45 = "anthropic/claude-opus-4-5"
	ModelGemini25Pro  = "google/gemini-2.5-pro"
)
