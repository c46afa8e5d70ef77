// Package extract turns raw model output into structured payloads.
//
// Extraction runs once per requested scope tag, in order. A non-empty tag
// first narrows the text to the region between <tag> and </tag>; the region is
// then searched for a fenced block. Code extraction returns the inner text of
// a ```<language> block verbatim. List extraction parses a ```<format> block
// as YAML and requires a sequence of strings.
//
// A call is all-or-nothing: the first tag that fails aborts it, and the error
// is an [llm.Error] of kind [llm.ErrScoping], [llm.ErrPattern] or
// [llm.ErrContentShape].
package extract
