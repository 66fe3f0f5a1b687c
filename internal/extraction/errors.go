package extraction

import (
	"errors"
	"fmt"
)

var (
	ErrExtraction  = errors.New("text extraction failed")
	ErrEmptyBuffer = errors.New("empty buffer")
	ErrInvalidBlob = errors.New("invalid file data")
)

// Error carries the underlying cause of an extraction failure.
// errors.Is matches both ErrExtraction and the cause.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", ErrExtraction, e.Cause)
}

func (e *Error) Unwrap() []error {
	return []error{ErrExtraction, e.Cause}
}

func fail(format string, args ...any) error {
	return &Error{Cause: fmt.Errorf(format, args...)}
}
