package tiff

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ncihtan/go-htancensor/internal/types"
)

// maxBigTIFFEntries bounds the entry count read from a BigTIFF directory.
const maxBigTIFFEntries = 1 << 20

// Load opens and parses the file at path. The returned file keeps the
// source open for image data and must be closed by the caller.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	stat, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, &LoadError{Path: path, Err: err}
	}

	f, err := Open(fh, stat.Size())
	if err != nil {
		fh.Close()
		return nil, &LoadError{Path: path, Err: err}
	}

	f.path = path
	f.closer = fh
	return f, nil
}

// Open parses a TIFF-family file from r, which holds size bytes.
func Open(r io.ReaderAt, size int64) (*File, error) {
	rd := &reader{
		r:       r,
		size:    size,
		visited: make(map[int64]bool),
	}

	first, err := rd.readHeader()
	if err != nil {
		return nil, err
	}

	ifds, err := rd.readChain(first)
	if err != nil {
		return nil, err
	}

	return &File{
		ByteOrder: rd.order,
		BigTIFF:   rd.big,
		IFDs:      ifds,
		src:       r,
		size:      size,
	}, nil
}

// reader holds the parse state of one file.
type reader struct {
	r       io.ReaderAt
	size    int64
	order   binary.ByteOrder
	big     bool
	visited map[int64]bool
}

// readAt reads exactly n bytes at off after checking the range.
func (rd *reader) readAt(off int64, n uint64) ([]byte, error) {
	if off < 0 || n > uint64(rd.size) || uint64(off) > uint64(rd.size)-n {
		return nil, fmt.Errorf("%w: %d bytes at %d", ErrOutOfRange, n, off)
	}
	buf := make([]byte, n)
	if _, err := rd.r.ReadAt(buf, off); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read %d bytes at %d: %w", n, off, err)
	}
	return buf, nil
}

// readHeader detects byte order and variant and returns the first IFD offset.
func (rd *reader) readHeader() (int64, error) {
	header, err := rd.readAt(0, types.ClassicHeaderSize)
	if err != nil {
		return 0, fmt.Errorf("%w: file too small", ErrInvalidHeader)
	}

	switch string(header[0:2]) {
	case types.ByteOrderLittle:
		rd.order = binary.LittleEndian
	case types.ByteOrderBig:
		rd.order = binary.BigEndian
	default:
		return 0, fmt.Errorf("%w: byte order mark %q", ErrInvalidHeader, header[0:2])
	}

	switch magic := rd.order.Uint16(header[2:4]); magic {
	case types.MagicClassic:
		return int64(rd.order.Uint32(header[4:8])), nil
	case types.MagicBigTIFF:
		rd.big = true
	default:
		return 0, fmt.Errorf("%w: magic number %d", ErrInvalidHeader, magic)
	}

	header, err = rd.readAt(0, types.BigTIFFHeaderSize)
	if err != nil {
		return 0, fmt.Errorf("%w: truncated BigTIFF header", ErrInvalidHeader)
	}
	if bytesize := rd.order.Uint16(header[4:6]); bytesize != 8 {
		return 0, fmt.Errorf("%w: BigTIFF offset size %d", ErrInvalidHeader, bytesize)
	}
	first := rd.order.Uint64(header[8:16])
	if first > uint64(rd.size) {
		return 0, fmt.Errorf("%w: first IFD at %d", ErrOutOfRange, first)
	}
	return int64(first), nil
}

// readChain follows next-IFD pointers starting at off.
func (rd *reader) readChain(off int64) ([]*IFD, error) {
	var chain []*IFD
	for off != 0 {
		if rd.visited[off] {
			return nil, fmt.Errorf("%w: offset %d", ErrCycle, off)
		}
		rd.visited[off] = true

		ifd, next, err := rd.readIFD(off)
		if err != nil {
			return nil, err
		}
		chain = append(chain, ifd)
		off = next
	}
	return chain, nil
}

// readIFD parses the directory at off and every sub-IFD it points to.
func (rd *reader) readIFD(off int64) (*IFD, int64, error) {
	countSize, entrySize, valueSize := uint64(2), uint64(types.ClassicEntrySize), uint64(4)
	if rd.big {
		countSize, entrySize, valueSize = 8, types.BigTIFFEntrySize, 8
	}

	raw, err := rd.readAt(off, countSize)
	if err != nil {
		return nil, 0, fmt.Errorf("IFD at %d: %w", off, err)
	}
	var count uint64
	if rd.big {
		count = rd.order.Uint64(raw)
		if count > maxBigTIFFEntries {
			return nil, 0, fmt.Errorf("IFD at %d: %w: %d", off, ErrTooManyEntries, count)
		}
	} else {
		count = uint64(rd.order.Uint16(raw))
	}

	entries, err := rd.readAt(off+int64(countSize), count*entrySize+valueSize)
	if err != nil {
		return nil, 0, fmt.Errorf("IFD at %d: %w", off, err)
	}

	ifd := NewIFD()
	ifd.Offset = off

	for i := uint64(0); i < count; i++ {
		entry := entries[i*entrySize : (i+1)*entrySize]
		id := types.TagID(rd.order.Uint16(entry[0:2]))
		dt := types.Datatype(rd.order.Uint16(entry[2:4]))

		var n uint64
		var field []byte
		if rd.big {
			n = rd.order.Uint64(entry[4:12])
			field = entry[12:20]
		} else {
			n = uint64(rd.order.Uint32(entry[4:8]))
			field = entry[8:12]
		}

		// Readers skip entries of unknown type (TIFF 6.0, section 2).
		if !dt.Valid() {
			continue
		}

		tag, err := rd.readValue(dt, n, field)
		if err != nil {
			return nil, 0, fmt.Errorf("IFD at %d, tag %d: %w", off, id, err)
		}
		ifd.Tags[id] = tag
	}

	nextField := entries[count*entrySize:]
	var next int64
	if rd.big {
		next = int64(rd.order.Uint64(nextField))
	} else {
		next = int64(rd.order.Uint32(nextField))
	}
	if next < 0 || next > rd.size {
		return nil, 0, fmt.Errorf("IFD at %d: %w: next IFD at %d", off, ErrOutOfRange, next)
	}

	for _, id := range types.SubIFDTags {
		tag, ok := ifd.Tags[id]
		if !ok {
			continue
		}
		offsets, err := tag.Uints(rd.order)
		if err != nil {
			return nil, 0, fmt.Errorf("IFD at %d, sub-IFD tag %d: %w", off, id, err)
		}
		for _, childOff := range offsets {
			if childOff == 0 {
				continue
			}
			chain, err := rd.readChain(int64(childOff))
			if err != nil {
				return nil, 0, err
			}
			ifd.SubIFDs[id] = append(ifd.SubIFDs[id], chain)
		}
	}

	return ifd, next, nil
}

// readValue returns the value of one entry, inline or out of line.
func (rd *reader) readValue(dt types.Datatype, n uint64, field []byte) (*Tag, error) {
	size := uint64(dt.Size())
	if n > uint64(rd.size)/size {
		return nil, fmt.Errorf("%w: %d values of %s", ErrOutOfRange, n, dt)
	}
	length := n * size

	var data []byte
	if length <= uint64(len(field)) {
		data = make([]byte, length)
		copy(data, field[:length])
	} else {
		var valueOff uint64
		if rd.big {
			valueOff = rd.order.Uint64(field)
		} else {
			valueOff = uint64(rd.order.Uint32(field))
		}
		if valueOff > uint64(rd.size) {
			return nil, fmt.Errorf("%w: value at %d", ErrOutOfRange, valueOff)
		}
		var err error
		data, err = rd.readAt(int64(valueOff), length)
		if err != nil {
			return nil, err
		}
	}

	return &Tag{Type: dt, Count: n, Data: data}, nil
}
