package bd1

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated means the buffer ended before a fixed-size field.
	ErrTruncated = errors.New("truncated input")
	// ErrTextDecode means a texture filename record is not valid text.
	// Non-ASCII filenames are not supported by the format.
	ErrTextDecode = errors.New("texture filename is not valid text")
)

// ParseError locates a decode failure. It unwraps to ErrTruncated or
// ErrTextDecode.
type ParseError struct {
	Offset int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bd1: %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
