package ollama

const (
	ModelLlama32_3B   = "llama3.2:3b"
	ModelLlama31_8B   = "llama3.1:8b"
	ModelLlama31_70B  = "llama3.1:70b"
	ModelCodeLlama_7B = "codellama:7b"
	ModelMistral_7B   = "mistral:7b"
	ModelGemma2_9B    = "gemma2:9b"

	ModelQwen25Coder_7B  = "qwen2.5-coder:7b"
	ModelQwen25Coder_32B = "qwen2.5-coder:32b"
)
