// Package providers contains the backend adapter registry and shared
// transport helpers.
//
// Adapters self-register via init() functions using [Register]. The registry
// resolves a generator either by provider name or by matching the model name
// ([PrefixesMatcher], [GlobMatcher], [ContainsMatcher], [EnvMatcher]).
//
// Adapters are in subpackages, grouped by protocol family:
//
//   - [github.com/deepnoodle-ai/genner/providers/anthropic] - Claude (family A)
//   - [github.com/deepnoodle-ai/genner/providers/deepseek] - DeepSeek over OpenAI or OpenRouter (family B)
//   - [github.com/deepnoodle-ai/genner/providers/openrouter] - OpenRouter dual-channel client
//   - [github.com/deepnoodle-ai/genner/providers/ollama] - local models, including Qwen (family C)
//   - [github.com/deepnoodle-ai/genner/providers/google] - Gemini (family C)
package providers
