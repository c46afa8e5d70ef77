package extract

import (
	"errors"
	"testing"

	"github.com/deepnoodle-ai/genner/llm"
	"github.com/deepnoodle-ai/wonton/assert"
)

func TestScope(t *testing.T) {
	t.Run("empty tag returns whole text", func(t *testing.T) {
		scoped, err := Scope("hello <a>x</a>", "")
		assert.NoError(t, err)
		assert.Equal(t, "hello <a>x</a>", scoped)
	})

	t.Run("returns region between tags", func(t *testing.T) {
		scoped, err := Scope("before <plan>step one</plan> after", "plan")
		assert.NoError(t, err)
		assert.Equal(t, "step one", scoped)
	})

	t.Run("uses first closing tag after opening tag", func(t *testing.T) {
		scoped, err := Scope("</a><a>one</a><a>two</a>", "a")
		assert.NoError(t, err)
		assert.Equal(t, "one", scoped)
	})

	t.Run("missing opening tag", func(t *testing.T) {
		_, err := Scope("no tags here", "plan")
		assert.True(t, errors.Is(err, llm.ErrScoping))
	})

	t.Run("missing closing tag", func(t *testing.T) {
		_, err := Scope("<plan>never closed", "plan")
		assert.True(t, errors.Is(err, llm.ErrScoping))
		assert.Contains(t, err.Error(), "</plan>")
	})
}

func TestCode(t *testing.T) {
	e := New()

	t.Run("round trip is verbatim", func(t *testing.T) {
		code, err := e.Code("Here:\n```python\nprint(1)\n```\nDone.", "")
		assert.NoError(t, err)
		assert.Equal(t, []string{"print(1)\n"}, code)
	})

	t.Run("indented block keeps items separate", func(t *testing.T) {
		items, err := e.List("```yaml\n  - alpha\n  - beta\n```", "")
		assert.NoError(t, err)
		assert.Equal(t, [][]string{{"alpha", "beta"}}, items)
	})

	t.Run("common indentation keeps nesting", func(t *testing.T) {
		items, err := e.List("```yaml\n    - one\n    - two\n      more\n```", "")
		assert.NoError(t, err)
		assert.Equal(t, [][]string{{"one", "two more"}}, items)
	})

	t.Run("empty tag list yields empty result", func(t *testing.T) {
		code, err := e.Code("```python\nprint(1)\n```")
		assert.NoError(t, err)
		assert.NotNil(t, code)
		assert.Len(t, code, 0)
	})

	t.Run("first block wins", func(t *testing.T) {
		code, err := e.Code("```python\na = 1\n```\n```python\nb = 2\n```", "")
		assert.NoError(t, err)
		assert.Equal(t, []string{"a = 1\n"}, code)
	})

	t.Run("one block per tag in order", func(t *testing.T) {
		raw := "<setup>```python\nimport os\n```</setup>\n<main>```python\nrun()\n```</main>"
		code, err := e.Code(raw, "main", "setup")
		assert.NoError(t, err)
		assert.Equal(t, []string{"run()\n", "import os\n"}, code)
	})

	t.Run("wrong language is a pattern error", func(t *testing.T) {
		_, err := e.Code("```go\nfmt.Println(1)\n```", "")
		assert.True(t, errors.Is(err, llm.ErrPattern))
	})

	t.Run("first failing tag aborts the call", func(t *testing.T) {
		raw := "<a>```python\nx\n```</a>"
		code, err := e.Code(raw, "a", "b")
		assert.True(t, code == nil)
		assert.True(t, errors.Is(err, llm.ErrScoping))
	})

	t.Run("custom language is quoted", func(t *testing.T) {
		cpp := New(WithLanguage("c++"))
		code, err := cpp.Code("```c++\nint x;\n```", "")
		assert.NoError(t, err)
		assert.Equal(t, []string{"int x;\n"}, code)
		assert.Equal(t, "c++", cpp.Language())
	})
}

func TestList(t *testing.T) {
	e := New()

	t.Run("sequence of strings", func(t *testing.T) {
		items, err := e.List("```yaml\n- alpha\n- beta\n```", "")
		assert.NoError(t, err)
		assert.Equal(t, [][]string{{"alpha", "beta"}}, items)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		items, err := e.List("```yaml\n\n  - alpha\n  - beta\n\n```", "")
		assert.NoError(t, err)
		assert.Equal(t, [][]string{{"alpha", "beta"}}, items)
	})

	t.Run("empty tag list yields empty result", func(t *testing.T) {
		items, err := e.List("```yaml\n- a\n```")
		assert.NoError(t, err)
		assert.NotNil(t, items)
		assert.Len(t, items, 0)
	})

	t.Run("mapping is rejected", func(t *testing.T) {
		_, err := e.List("```yaml\nname: alpha\nkind: beta\n```", "")
		assert.True(t, errors.Is(err, llm.ErrContentShape))
		assert.Contains(t, err.Error(), "mapping")
	})

	t.Run("non-string element is rejected", func(t *testing.T) {
		_, err := e.List("```yaml\n- alpha\n- 3\n```", "")
		assert.True(t, errors.Is(err, llm.ErrContentShape))
		assert.Contains(t, err.Error(), "element 1")
	})

	t.Run("missing block is a pattern error", func(t *testing.T) {
		_, err := e.List("- alpha\n- beta", "")
		assert.True(t, errors.Is(err, llm.ErrPattern))
	})

	t.Run("invalid document is a shape error", func(t *testing.T) {
		_, err := e.List("```yaml\n- [unclosed\n```", "")
		assert.True(t, errors.Is(err, llm.ErrContentShape))
	})

	t.Run("scoped lists in tag order", func(t *testing.T) {
		raw := "<tools>```yaml\n- search\n```</tools><steps>```yaml\n- one\n- two\n```</steps>"
		items, err := e.List(raw, "steps", "tools")
		assert.NoError(t, err)
		assert.Equal(t, [][]string{{"one", "two"}, {"search"}}, items)
	})

	t.Run("atomic on failure", func(t *testing.T) {
		raw := "<a>```yaml\n- ok\n```</a><b>```yaml\nkey: value\n```</b>"
		items, err := e.List(raw, "a", "b")
		assert.True(t, items == nil)
		assert.True(t, errors.Is(err, llm.ErrContentShape))
	})
}

func TestListLenient(t *testing.T) {
	e := New(WithLenientLists(true))

	t.Run("scalars rendered as text", func(t *testing.T) {
		items, err := e.List("```yaml\n- alpha\n- 3\n- true\n```", "")
		assert.NoError(t, err)
		assert.Equal(t, [][]string{{"alpha", "3", "true"}}, items)
	})

	t.Run("nested values still rejected", func(t *testing.T) {
		_, err := e.List("```yaml\n- alpha\n- key: value\n```", "")
		assert.True(t, errors.Is(err, llm.ErrContentShape))
	})

	t.Run("mapping still rejected", func(t *testing.T) {
		_, err := e.List("```yaml\nkey: value\n```", "")
		assert.True(t, errors.Is(err, llm.ErrContentShape))
	})
}

func TestCustomDataFormat(t *testing.T) {
	e := New(WithDataFormat("json"))
	items, err := e.List("```json\n[\"a\", \"b\"]\n```", "")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, items)
	assert.Equal(t, "json", e.DataFormat())
}
