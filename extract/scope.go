package extract

import (
	"strings"

	"github.com/deepnoodle-ai/genner/llm"
)

// Scope returns the region of text between <tag> and the first </tag> that
// follows it. An empty tag returns the whole text.
func Scope(text, tag string) (string, error) {
	if tag == "" {
		return text, nil
	}
	open := "<" + tag + ">"
	closing := "</" + tag + ">"

	start := strings.Index(text, open)
	if start == -1 {
		return "", llm.Errorf(llm.ErrScoping, "extract.scope", "opening tag <%s> not found", tag)
	}
	start += len(open)

	end := strings.Index(text[start:], closing)
	if end == -1 {
		return "", llm.Errorf(llm.ErrScoping, "extract.scope", "closing tag </%s> not found", tag)
	}
	return text[start : start+end], nil
}
