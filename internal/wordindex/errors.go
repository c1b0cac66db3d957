package wordindex

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound indicates the directory to index does not exist
	ErrPathNotFound = errors.New("path not found")

	// ErrWordNotFound indicates a looked-up word has no entry in the index
	ErrWordNotFound = errors.New("word not found")

	// ErrIndexParse indicates a malformed record in a persisted index
	ErrIndexParse = errors.New("malformed index record")
)

// ParseError describes a record of dexter.index that could not be parsed.
type ParseError struct {
	// Line is the 1-based line number within the index file.
	Line int
	// Text is the offending record, trimmed.
	Text string
	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s line %d: %v: %q", IndexFilename, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIndexParse so callers can match any parse
// failure without knowing its cause.
func (e *ParseError) Is(target error) bool {
	return target == ErrIndexParse
}

// PathError reports a directory that does not exist. It matches ErrPathNotFound.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v: %s", ErrPathNotFound, e.Path)
}

func (e *PathError) Is(target error) bool {
	return target == ErrPathNotFound
}
