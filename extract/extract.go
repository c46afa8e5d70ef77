package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/goccy/go-yaml"
)

var (
	DefaultLanguage   = "python"
	DefaultDataFormat = "yaml"
)

// Extractor pulls fenced payloads out of raw model output.
type Extractor struct {
	language   string
	dataFormat string
	lenient    bool
	codeRegex  *regexp.Regexp
	listRegex  *regexp.Regexp
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLanguage sets the language marker expected on code fences.
func WithLanguage(language string) Option {
	return func(e *Extractor) {
		e.language = language
	}
}

// WithDataFormat sets the marker expected on list fences.
func WithDataFormat(format string) Option {
	return func(e *Extractor) {
		e.dataFormat = format
	}
}

// WithLenientLists accepts scalar list elements that are not strings and
// renders them as text. Mappings and nested sequences are still rejected.
func WithLenientLists(lenient bool) Option {
	return func(e *Extractor) {
		e.lenient = lenient
	}
}

// New returns an Extractor. Without options it expects ```python code fences
// and ```yaml list fences whose elements are all strings.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		language:   DefaultLanguage,
		dataFormat: DefaultDataFormat,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.codeRegex = regexp.MustCompile("```" + regexp.QuoteMeta(e.language) + "\\n([\\s\\S]*?)```")
	e.listRegex = regexp.MustCompile("(?s)```" + regexp.QuoteMeta(e.dataFormat) + "\\n(.*?)```")
	return e
}

// Language returns the code fence language marker.
func (e *Extractor) Language() string {
	return e.language
}

// DataFormat returns the list fence marker.
func (e *Extractor) DataFormat() string {
	return e.dataFormat
}

// Code extracts one code block per tag, in tag order. The first failing tag
// aborts the call. An empty tag list yields an empty result.
func (e *Extractor) Code(text string, tags ...string) ([]string, error) {
	extracts := make([]string, 0, len(tags))
	for _, tag := range tags {
		scoped, err := Scope(text, tag)
		if err != nil {
			return nil, err
		}
		match := e.codeRegex.FindStringSubmatch(scoped)
		if match == nil {
			return nil, llm.Errorf(llm.ErrPattern, "extract.code",
				"no ```%s block found%s", e.language, inTag(tag))
		}
		extracts = append(extracts, match[1])
	}
	return extracts, nil
}

// List extracts one list per tag, in tag order. Each list comes from a fenced
// data block whose top level must be a sequence. The first failing tag aborts
// the call. An empty tag list yields an empty result.
func (e *Extractor) List(text string, tags ...string) ([][]string, error) {
	extracts := make([][]string, 0, len(tags))
	for _, tag := range tags {
		scoped, err := Scope(text, tag)
		if err != nil {
			return nil, err
		}
		match := e.listRegex.FindStringSubmatch(scoped)
		if match == nil {
			return nil, llm.Errorf(llm.ErrPattern, "extract.list",
				"no ```%s block found%s", e.dataFormat, inTag(tag))
		}
		items, err := e.parseList(dedent(match[1]))
		if err != nil {
			return nil, llm.NewError(llm.ErrContentShape, "extract.list",
				fmt.Errorf("%w%s", err, inTag(tag)))
		}
		extracts = append(extracts, items)
	}
	return extracts, nil
}

func (e *Extractor) parseList(body string) ([]string, error) {
	var document any
	if err := yaml.Unmarshal([]byte(body), &document); err != nil {
		return nil, fmt.Errorf("invalid %s document: %w", e.dataFormat, err)
	}
	sequence, ok := document.([]any)
	if !ok {
		return nil, fmt.Errorf("top level is %s, expected a sequence", describe(document))
	}
	items := make([]string, 0, len(sequence))
	for i, element := range sequence {
		if s, ok := element.(string); ok {
			items = append(items, s)
			continue
		}
		if !e.lenient || !isScalar(element) {
			return nil, fmt.Errorf("element %d is %s, expected a string", i, describe(element))
		}
		items = append(items, fmt.Sprint(element))
	}
	return items, nil
}

func isScalar(value any) bool {
	switch value.(type) {
	case []any, map[string]any, map[any]any, nil:
		return false
	}
	return true
}

func describe(value any) string {
	switch value.(type) {
	case nil:
		return "empty"
	case []any:
		return "a sequence"
	case map[string]any, map[any]any:
		return "a mapping"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int, int64, uint64, float64:
		return "a number"
	default:
		return fmt.Sprintf("a %T", value)
	}
}

func inTag(tag string) string {
	if tag == "" {
		return ""
	}
	return fmt.Sprintf(" in <%s>", tag)
}

// dedent drops surrounding blank lines and the indentation shared by every
// non-blank line, leaving relative nesting intact.
func dedent(body string) string {
	lines := strings.Split(strings.Trim(body, "\r\n"), "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(line, prefix), "\r")
	}
	return strings.Join(lines, "\n")
}
