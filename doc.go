// Package genner gives every supported language-model backend one contract
// for turning a conversation into text, code blocks and item lists.
//
// The core types are:
//
//   - [Generator] is the contract: Complete, GenerateCode and GenerateList.
//   - [Genner] implements it by composing an [llm.Completer] backend adapter
//     with an [extract.Extractor].
//   - [CodeResult] and [ListResult] carry extracted payloads together with
//     the raw completion text.
//
// # Failure policy
//
// A failed completion is always a hard error. When the completion succeeds
// but extraction fails, GenerateCode still succeeds: it returns the raw text
// with a nil Code slice and records the extraction error in Cause.
// GenerateList returns the extraction error instead.
//
// # Quick Start
//
//	gen := genner.New(anthropic.New(anthropic.WithModel("claude-sonnet-4-5")))
//	conv := llm.NewConversation(
//	    llm.NewSystemMessage("You write Python. Reply with one fenced block."),
//	    llm.NewUserMessage("Sum a list of integers."),
//	)
//	result, err := gen.GenerateCode(ctx, conv, "")
//
// Backend adapters live in the [github.com/deepnoodle-ai/genner/providers]
// subpackages.
package genner
