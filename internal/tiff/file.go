// Package tiff loads and re-encodes TIFF-family files as a mutable tree of
// image file directories.
//
// Tag values are kept as raw bytes in the byte order of the source file.
// Image data (strips, tiles, embedded JPEG streams) is never decoded: it is
// read lazily from the source on Encode and copied verbatim into the new
// layout, so only directory data changes between input and output.
package tiff

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ncihtan/go-htancensor/internal/types"
)

// Tag is a single directory entry.
type Tag struct {
	Type  types.Datatype
	Count uint64
	Data  []byte
}

// NewASCIITag returns a NUL terminated ASCII tag holding s.
func NewASCIITag(s string) *Tag {
	data := make([]byte, len(s)+1)
	copy(data, s)
	return &Tag{
		Type:  types.DatatypeASCII,
		Count: uint64(len(data)),
		Data:  data,
	}
}

// NewTag returns a tag of the given datatype built from raw data. The data
// length must be a multiple of the datatype size.
func NewTag(dt types.Datatype, data []byte) (*Tag, error) {
	size := dt.Size()
	if size == 0 {
		return nil, fmt.Errorf("unsupported datatype %d", dt)
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %s values", len(data), dt)
	}
	return &Tag{
		Type:  dt,
		Count: uint64(len(data) / size),
		Data:  data,
	}, nil
}

// ByteLength returns the encoded length of the tag value.
func (t *Tag) ByteLength() int {
	return len(t.Data)
}

// ASCII returns the tag value as text with trailing NUL bytes removed.
func (t *Tag) ASCII() string {
	return strings.TrimRight(string(t.Data), "\x00")
}

// Uints decodes the tag value as unsigned integers. Only datatypes that can
// carry offsets or counts are accepted.
func (t *Tag) Uints(order binary.ByteOrder) ([]uint64, error) {
	size := t.Type.Size()
	if !t.Type.IsOffset() && t.Type != types.DatatypeByte {
		return nil, fmt.Errorf("datatype %s does not hold unsigned integers", t.Type)
	}
	values := make([]uint64, 0, len(t.Data)/size)
	for i := 0; i+size <= len(t.Data); i += size {
		chunk := t.Data[i : i+size]
		switch size {
		case 1:
			values = append(values, uint64(chunk[0]))
		case 2:
			values = append(values, uint64(order.Uint16(chunk)))
		case 4:
			values = append(values, uint64(order.Uint32(chunk)))
		case 8:
			values = append(values, order.Uint64(chunk))
		}
	}
	return values, nil
}

// newUintTag encodes values with the given datatype.
func newUintTag(dt types.Datatype, order binary.ByteOrder, values []uint64) *Tag {
	size := dt.Size()
	data := make([]byte, len(values)*size)
	for i, v := range values {
		chunk := data[i*size : (i+1)*size]
		switch size {
		case 2:
			order.PutUint16(chunk, uint16(v))
		case 4:
			order.PutUint32(chunk, uint32(v))
		case 8:
			order.PutUint64(chunk, v)
		}
	}
	return &Tag{Type: dt, Count: uint64(len(values)), Data: data}
}

// IFD is an image file directory. Each tag id is unique within it. Child
// directories are reachable only through the pointer tag they hang off.
type IFD struct {
	Tags    map[types.TagID]*Tag
	SubIFDs map[types.TagID][][]*IFD

	// Offset is where the directory was found in the source file, 0 for
	// directories built in memory.
	Offset int64
}

// NewIFD returns an empty directory.
func NewIFD() *IFD {
	return &IFD{
		Tags:    make(map[types.TagID]*Tag),
		SubIFDs: make(map[types.TagID][][]*IFD),
	}
}

// Get returns the tag with the given id. The boolean is false when the tag
// is absent.
func (d *IFD) Get(id types.TagID) (*Tag, bool) {
	t, ok := d.Tags[id]
	return t, ok
}

// Set stores a tag, replacing any previous value.
func (d *IFD) Set(id types.TagID, t *Tag) {
	d.Tags[id] = t
}

// Delete removes a tag and reports whether it was present.
func (d *IFD) Delete(id types.TagID) bool {
	if _, ok := d.Tags[id]; !ok {
		return false
	}
	delete(d.Tags, id)
	return true
}

// TagIDs returns the ids of all tags in ascending order.
func (d *IFD) TagIDs() []types.TagID {
	ids := make([]types.TagID, 0, len(d.Tags))
	for id := range d.Tags {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AddSubIFDChain hangs a chain of child directories off a pointer tag. The
// pointer tag's value is filled in when the file is encoded.
func (d *IFD) AddSubIFDChain(id types.TagID, chain ...*IFD) {
	if _, ok := d.Tags[id]; !ok {
		d.Tags[id] = &Tag{Type: types.DatatypeLong}
	}
	d.SubIFDs[id] = append(d.SubIFDs[id], chain)
}

// File is a loaded TIFF-family file.
type File struct {
	ByteOrder binary.ByteOrder
	BigTIFF   bool
	IFDs      []*IFD

	path   string
	src    io.ReaderAt
	size   int64
	closer io.Closer
}

// New returns an empty file with no source data.
func New(order binary.ByteOrder, bigTIFF bool) *File {
	return &File{
		ByteOrder: order,
		BigTIFF:   bigTIFF,
	}
}

// Path returns the path the file was loaded from, if any.
func (f *File) Path() string {
	return f.path
}

// Size returns the size of the source in bytes.
func (f *File) Size() int64 {
	return f.size
}

// ReadAt reads raw bytes from the source the file was loaded from.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.src == nil {
		return 0, ErrNoSource
	}
	return f.src.ReadAt(p, off)
}

// Close releases the source file handle.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}
