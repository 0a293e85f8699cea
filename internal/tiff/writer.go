package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ncihtan/go-htancensor/internal/types"
)

// Save encodes f to path. An existing target is refused unless
// allowOverwrite is set. The output is written to a temporary file next to
// the target and renamed into place, so f may be saved over its own source.
func Save(f *File, path string, allowOverwrite bool) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		if !allowOverwrite {
			return &WriteError{Path: path, Err: ErrExists}
		}
		mode = info.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return &WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if err := f.Encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Encode writes the file to w. Directory data is laid out afresh; image data
// blocks are copied from the source unchanged. The in-memory tree is not
// modified.
func (f *File) Encode(w io.WriterAt) error {
	enc := &encoder{
		w:     w,
		f:     f,
		order: f.ByteOrder,
		big:   f.BigTIFF || f.size > types.MaxClassicOffset,
		moved: make(map[[2]uint64]uint64),
	}
	if enc.order == nil {
		enc.order = binary.LittleEndian
	}

	firstPos, err := enc.writeHeader()
	if err != nil {
		return err
	}

	first, err := enc.writeChain(f.IFDs)
	if err != nil {
		return err
	}
	return enc.patchOffset(firstPos, first)
}

// encoder tracks the write position while laying out a file.
type encoder struct {
	w     io.WriterAt
	f     *File
	order binary.ByteOrder
	big   bool
	pos   int64

	// moved maps a source block (offset, length) to its new offset so
	// blocks shared between tiles are written once.
	moved map[[2]uint64]uint64
}

func (enc *encoder) write(b []byte) error {
	n, err := enc.w.WriteAt(b, enc.pos)
	enc.pos += int64(n)
	return err
}

// align pads the output to an even offset.
func (enc *encoder) align() error {
	if enc.pos%2 == 0 {
		return nil
	}
	return enc.write([]byte{0})
}

func (enc *encoder) checkOffset(off int64) error {
	if !enc.big && off > types.MaxClassicOffset {
		return fmt.Errorf("%w: %d", ErrOffsetOverflow, off)
	}
	return nil
}

// patchOffset writes an offset value at pos without moving the cursor.
func (enc *encoder) patchOffset(pos, value int64) error {
	if err := enc.checkOffset(value); err != nil {
		return err
	}
	var buf []byte
	if enc.big {
		buf = make([]byte, 8)
		enc.order.PutUint64(buf, uint64(value))
	} else {
		buf = make([]byte, 4)
		enc.order.PutUint32(buf, uint32(value))
	}
	_, err := enc.w.WriteAt(buf, pos)
	return err
}

// writeHeader writes the file header and returns the position of the
// first-IFD pointer.
func (enc *encoder) writeHeader() (int64, error) {
	var header []byte
	mark := types.ByteOrderLittle
	if enc.order == binary.BigEndian {
		mark = types.ByteOrderBig
	}

	if enc.big {
		header = make([]byte, types.BigTIFFHeaderSize)
		copy(header, mark)
		enc.order.PutUint16(header[2:4], types.MagicBigTIFF)
		enc.order.PutUint16(header[4:6], 8)
		if err := enc.write(header); err != nil {
			return 0, err
		}
		return 8, nil
	}

	header = make([]byte, types.ClassicHeaderSize)
	copy(header, mark)
	enc.order.PutUint16(header[2:4], types.MagicClassic)
	if err := enc.write(header); err != nil {
		return 0, err
	}
	return 4, nil
}

// writeChain writes a chain of directories and links them through their
// next pointers. It returns the offset of the first directory.
func (enc *encoder) writeChain(chain []*IFD) (int64, error) {
	var first int64
	prevNext := int64(-1)
	for _, ifd := range chain {
		off, nextPos, err := enc.writeIFD(ifd)
		if err != nil {
			return 0, err
		}
		if prevNext < 0 {
			first = off
		} else if err := enc.patchOffset(prevNext, off); err != nil {
			return 0, err
		}
		prevNext = nextPos
	}
	return first, nil
}

// offsetType picks the datatype used for rewritten offsets.
func (enc *encoder) offsetType(orig types.Datatype, pointer bool) types.Datatype {
	switch {
	case enc.big && pointer && orig == types.DatatypeIFD8:
		return types.DatatypeIFD8
	case enc.big:
		return types.DatatypeLong8
	case pointer && orig == types.DatatypeIFD:
		return types.DatatypeIFD
	default:
		return types.DatatypeLong
	}
}

// writeIFD writes the children, image data and out-of-line values of a
// directory followed by the directory itself. It returns the directory's
// offset and the position of its next pointer.
func (enc *encoder) writeIFD(ifd *IFD) (int64, int64, error) {
	tags := make(map[types.TagID]*Tag, len(ifd.Tags))
	for id, t := range ifd.Tags {
		tags[id] = t
	}

	for _, id := range types.SubIFDTags {
		orig, ok := tags[id]
		if !ok {
			continue
		}
		chains := ifd.SubIFDs[id]
		if len(chains) == 0 {
			delete(tags, id)
			continue
		}
		offsets := make([]uint64, 0, len(chains))
		for _, chain := range chains {
			off, err := enc.writeChain(chain)
			if err != nil {
				return 0, 0, err
			}
			offsets = append(offsets, uint64(off))
		}
		tags[id] = newUintTag(enc.offsetType(orig.Type, true), enc.order, offsets)
	}

	for _, pair := range types.DataBlockPairs {
		offTag, ok := tags[pair.Offsets]
		if !ok {
			continue
		}
		moved, err := enc.copyBlocks(offTag, tags[pair.ByteCounts])
		if err != nil {
			return 0, 0, fmt.Errorf("tag %d: %w", pair.Offsets, err)
		}
		tags[pair.Offsets] = newUintTag(enc.offsetType(offTag.Type, false), enc.order, moved)
	}

	countSize, entrySize, valueSize := 2, types.ClassicEntrySize, 4
	if enc.big {
		countSize, entrySize, valueSize = 8, types.BigTIFFEntrySize, 8
	}

	ids := (&IFD{Tags: tags}).TagIDs()
	valueOffsets := make(map[types.TagID]int64)
	for _, id := range ids {
		t := tags[id]
		if len(t.Data) <= valueSize {
			continue
		}
		if err := enc.align(); err != nil {
			return 0, 0, err
		}
		if err := enc.checkOffset(enc.pos); err != nil {
			return 0, 0, err
		}
		valueOffsets[id] = enc.pos
		if err := enc.write(t.Data); err != nil {
			return 0, 0, err
		}
	}

	if err := enc.align(); err != nil {
		return 0, 0, err
	}
	ifdOff := enc.pos
	if err := enc.checkOffset(ifdOff); err != nil {
		return 0, 0, err
	}

	buf := make([]byte, countSize+len(ids)*entrySize+valueSize)
	if enc.big {
		enc.order.PutUint64(buf[0:8], uint64(len(ids)))
	} else {
		enc.order.PutUint16(buf[0:2], uint16(len(ids)))
	}

	for i, id := range ids {
		t := tags[id]
		if t.Type.Size() == 0 {
			return 0, 0, fmt.Errorf("tag %d: unsupported datatype %d", id, t.Type)
		}
		entry := buf[countSize+i*entrySize : countSize+(i+1)*entrySize]
		enc.order.PutUint16(entry[0:2], uint16(id))
		enc.order.PutUint16(entry[2:4], uint16(t.Type))

		count := uint64(len(t.Data) / t.Type.Size())
		var field []byte
		if enc.big {
			enc.order.PutUint64(entry[4:12], count)
			field = entry[12:20]
		} else {
			enc.order.PutUint32(entry[4:8], uint32(count))
			field = entry[8:12]
		}

		if off, ok := valueOffsets[id]; ok {
			if enc.big {
				enc.order.PutUint64(field, uint64(off))
			} else {
				enc.order.PutUint32(field, uint32(off))
			}
		} else {
			copy(field, t.Data)
		}
	}

	if err := enc.write(buf); err != nil {
		return 0, 0, err
	}
	return ifdOff, enc.pos - int64(valueSize), nil
}

// copyBlocks copies the data blocks described by an offsets tag and its
// byte counts tag and returns their new offsets.
func (enc *encoder) copyBlocks(offTag, countTag *Tag) ([]uint64, error) {
	offsets, err := offTag.Uints(enc.order)
	if err != nil {
		return nil, err
	}
	if countTag == nil {
		return nil, fmt.Errorf("%w: byte counts missing", ErrCountMismatch)
	}
	counts, err := countTag.Uints(enc.order)
	if err != nil {
		return nil, err
	}
	if len(counts) != len(offsets) {
		return nil, fmt.Errorf("%w: %d offsets, %d byte counts", ErrCountMismatch, len(offsets), len(counts))
	}

	moved := make([]uint64, len(offsets))
	for i, off := range offsets {
		n := counts[i]
		if n == 0 {
			continue
		}
		key := [2]uint64{off, n}
		if dst, ok := enc.moved[key]; ok {
			moved[i] = dst
			continue
		}
		if enc.f.src == nil {
			return nil, ErrNoSource
		}
		if off > uint64(enc.f.size) || n > uint64(enc.f.size)-off {
			return nil, fmt.Errorf("%w: block of %d bytes at %d", ErrOutOfRange, n, off)
		}

		if err := enc.align(); err != nil {
			return nil, err
		}
		if err := enc.checkOffset(enc.pos + int64(n)); err != nil {
			return nil, err
		}
		dst := enc.pos
		src := io.NewSectionReader(enc.f.src, int64(off), int64(n))
		written, err := io.Copy(io.NewOffsetWriter(enc.w, dst), src)
		if err != nil {
			return nil, fmt.Errorf("failed to copy block at %d: %w", off, err)
		}
		enc.pos += written

		moved[i] = uint64(dst)
		enc.moved[key] = uint64(dst)
	}
	return moved, nil
}
