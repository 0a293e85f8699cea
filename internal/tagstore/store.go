// Package tagstore is the accessor the redaction engine uses to walk and
// edit the directory tree of a loaded file.
package tagstore

import (
	"fmt"
	"strconv"

	"github.com/ncihtan/go-htancensor/internal/interfaces"
	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/internal/types"
)

// store implements the TagStore interface over a tiff.File
type store struct {
	file *tiff.File
}

// New creates a TagStore over a loaded file
func New(f *tiff.File) interfaces.TagStore {
	return &store{file: f}
}

// Directories returns every top-level directory in chain order. With
// includeSubIFDs each directory is followed by its children, visiting
// pointer tags in types.SubIFDTags order.
func (s *store) Directories(includeSubIFDs bool) []interfaces.DirectoryEntry {
	var entries []interfaces.DirectoryEntry
	for i, ifd := range s.file.IFDs {
		entries = walk(entries, ifd, strconv.Itoa(i), 0, includeSubIFDs)
	}
	return entries
}

func walk(entries []interfaces.DirectoryEntry, ifd *tiff.IFD, path string, depth int, includeSubIFDs bool) []interfaces.DirectoryEntry {
	entries = append(entries, interfaces.DirectoryEntry{
		Index: len(entries),
		Path:  path,
		Depth: depth,
		IFD:   ifd,
	})
	if !includeSubIFDs {
		return entries
	}

	for _, id := range types.SubIFDTags {
		for ci, chain := range ifd.SubIFDs[id] {
			for pi, child := range chain {
				childPath := fmt.Sprintf("%s/%d.%d.%d", path, id, ci, pi)
				entries = walk(entries, child, childPath, depth+1, includeSubIFDs)
			}
		}
	}
	return entries
}

// Root returns directory 0
func (s *store) Root() (*tiff.IFD, bool) {
	if len(s.file.IFDs) == 0 {
		return nil, false
	}
	return s.file.IFDs[0], true
}

// Get returns a tag, or false if it is absent
func (s *store) Get(dir *tiff.IFD, id types.TagID) (*tiff.Tag, bool) {
	if dir == nil {
		return nil, false
	}
	return dir.Get(id)
}

// GetASCII returns a tag's text, or false if it is absent or not ASCII
func (s *store) GetASCII(dir *tiff.IFD, id types.TagID) (string, bool) {
	t, ok := s.Get(dir, id)
	if !ok || t.Type != types.DatatypeASCII {
		return "", false
	}
	return t.ASCII(), true
}

// Set stores raw data with the given datatype
func (s *store) Set(dir *tiff.IFD, id types.TagID, dt types.Datatype, data []byte) error {
	t, err := tiff.NewTag(dt, data)
	if err != nil {
		return fmt.Errorf("tag %d: %w", id, err)
	}
	dir.Set(id, t)
	return nil
}

// SetASCII stores text as a NUL terminated ASCII tag
func (s *store) SetASCII(dir *tiff.IFD, id types.TagID, text string) {
	dir.Set(id, tiff.NewASCIITag(text))
}

// Delete removes a tag and reports whether it was present
func (s *store) Delete(dir *tiff.IFD, id types.TagID) bool {
	if dir == nil {
		return false
	}
	return dir.Delete(id)
}
