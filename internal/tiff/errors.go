package tiff

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHeader  = errors.New("invalid TIFF header")
	ErrCycle          = errors.New("IFD referenced more than once")
	ErrOutOfRange     = errors.New("offset or length outside file")
	ErrTooManyEntries = errors.New("IFD entry count exceeds limit")
	ErrExists         = errors.New("target file already exists")
	ErrNoSource       = errors.New("no source data attached")
	ErrOffsetOverflow = errors.New("offset does not fit a classic TIFF")
	ErrCountMismatch  = errors.New("offset and byte count tags disagree")
)

// LoadError reports a file that could not be opened or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// WriteError reports a file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
