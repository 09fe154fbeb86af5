package merge

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDirective is returned by [Extract] when a directive keyword
	// starts a word but does not begin the "<keyword> <kind> <name> { ... }" shape.
	ErrMalformedDirective = errors.New("malformed directive")

	// ErrTargetBlockNotFound is returned when an extends directive targets a
	// block that is not present in the document at the time it is applied.
	ErrTargetBlockNotFound = errors.New("target block not found")
)

// DirectiveError locates a directive failure in the raw input. It wraps
// [ErrMalformedDirective] or [ErrTargetBlockNotFound].
type DirectiveError struct {
	Err error

	// Line is the 1-based line and Offset the byte offset of the directive
	// keyword in the raw input.
	Line   int
	Offset int

	// Detail is the offending line or the directive target.
	Detail string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%v at line %d: %s", e.Err, e.Line, e.Detail)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}
