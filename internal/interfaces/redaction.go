// File: internal/interfaces/redaction.go
package interfaces

import (
	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/internal/types"
)

// DirectoryEntry is one directory in enumeration order
type DirectoryEntry struct {
	// Index is the position in the enumeration
	Index int

	// Path locates the directory, e.g. "0" or "0/330.0.1" for the second
	// directory of the first chain hanging off tag 330 of directory 0
	Path string

	// Depth is 0 for top-level directories
	Depth int

	IFD *tiff.IFD
}

// TopLevel reports whether the directory is part of the main IFD chain
func (e DirectoryEntry) TopLevel() bool {
	return e.Depth == 0
}

// TagStore provides typed access to the directory tree of a loaded file
type TagStore interface {
	// Directories enumerates directories depth-first, parents before children
	Directories(includeSubIFDs bool) []DirectoryEntry

	// Root returns directory 0, or false if the file has no directories
	Root() (*tiff.IFD, bool)

	// Get returns a tag, or false if the directory does not carry it
	Get(dir *tiff.IFD, id types.TagID) (*tiff.Tag, bool)

	// GetASCII returns a tag's text, or false if it is absent or not ASCII
	GetASCII(dir *tiff.IFD, id types.TagID) (string, bool)

	// Set stores raw data with the given datatype
	Set(dir *tiff.IFD, id types.TagID, dt types.Datatype, data []byte) error

	// SetASCII stores text as a NUL terminated ASCII tag
	SetASCII(dir *tiff.IFD, id types.TagID, text string)

	// Delete removes a tag and reports whether it was present
	Delete(dir *tiff.IFD, id types.TagID) bool
}

// Redactor finds and rewrites one kind of date-bearing field
type Redactor interface {
	// Name identifies the redactor in reports
	Name() string

	// IncludeSubIFDs reports whether the redactor visits child directories
	IncludeSubIFDs() bool

	// Probe reports whether the directory holds a field this redactor handles
	Probe(store TagStore, entry DirectoryEntry) bool

	// Redact mutates the directory and returns the number of occurrences touched
	Redact(store TagStore, entry DirectoryEntry, mode types.Mode) (int, error)
}
