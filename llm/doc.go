// Package llm defines the provider-neutral data model shared by every
// generator backend.
//
//   - [Message] and [Conversation] carry the dialogue handed to a backend.
//   - [Settings] hold the immutable per-adapter generation settings.
//   - [Completer] is the operation every backend adapter implements.
//   - [TokenStream], [Sink] and [Drain] implement inline token forwarding,
//     the local token cap and the reasoning/main channel split.
//   - [Error] and the kind sentinels ([ErrCompletion], [ErrScoping],
//     [ErrPattern], [ErrContentShape]) form the error taxonomy.
//
// Most callers use [github.com/deepnoodle-ai/genner.Generator] rather than
// this package directly. Direct usage is needed when writing a new backend.
package llm
