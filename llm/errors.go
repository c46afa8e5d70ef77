package llm

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that crosses a Generator boundary matches exactly
// one of these via errors.Is.
var (
	// ErrCompletion means no usable text was obtained: a network or provider
	// failure, a missing leading system message, or a non-text response.
	ErrCompletion = errors.New("completion failed")

	// ErrScoping means a requested scope tag was not found in the raw text.
	ErrScoping = errors.New("scope tag not found")

	// ErrPattern means the fenced block of the required kind was not found
	// within the scoped text.
	ErrPattern = errors.New("fenced block not found")

	// ErrContentShape means a fenced block was parsed but its shape does not
	// match the expected payload.
	ErrContentShape = errors.New("unexpected content shape")
)

// Error is the tagged error value returned by adapters and the extraction
// pipeline.
type Error struct {
	// Kind is one of ErrCompletion, ErrScoping, ErrPattern or ErrContentShape.
	Kind error

	// Op names the operation that failed, e.g. "anthropic.complete".
	Op string

	// Err is the underlying cause, if any.
	Err error
}

// NewError returns a tagged error of the given kind.
func NewError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf returns a tagged error whose cause is formatted from the arguments.
func Errorf(kind error, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the kind of a tagged error, or nil if err carries no kind.
func KindOf(err error) error {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return nil
}

// AsCompletionError tags err as a CompletionError unless it already is one.
// A nil err yields nil.
func AsCompletionError(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) == ErrCompletion {
		return err
	}
	return NewError(ErrCompletion, op, err)
}
