package tiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncihtan/go-htancensor/internal/types"
)

var pixels = []byte("0123456789abcdef")

// newStripFile builds a two-page file whose first page owns two strips of
// pixels and a sub-IFD chain.
func newStripFile(order binary.ByteOrder, big bool) *File {
	f := New(order, big)
	f.src = bytes.NewReader(pixels)
	f.size = int64(len(pixels))

	page := NewIFD()
	page.Set(types.TagImageDescription, NewASCIITag("Aperio Image Library v12|Date = 01/02/20|Time = 03:04:05"))
	page.Set(types.TagDateTime, NewASCIITag("2020:01:02 03:04:05"))
	page.Set(types.TagStripOffsets, newUintTag(types.DatatypeLong, order, []uint64{0, 10}))
	page.Set(types.TagStripByteCounts, newUintTag(types.DatatypeLong, order, []uint64{10, 6}))

	child := NewIFD()
	child.Set(types.TagDateTime, NewASCIITag("2020:01:02 03:04:06"))
	grandchild := NewIFD()
	grandchild.Set(types.TagDateTime, NewASCIITag("2020:01:02 03:04:07"))
	page.AddSubIFDChain(types.TagSubIFDs, child, grandchild)

	label := NewIFD()
	label.Set(types.TagImageDescription, NewASCIITag("label"))

	f.IFDs = []*IFD{page, label}
	return f
}

func saveAndLoad(t *testing.T, f *File) *File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.tif")
	require.NoError(t, Save(f, path, false))

	loaded, err := Load(path)
	require.NoError(t, err)
	t.Cleanup(func() { loaded.Close() })
	return loaded
}

func readStrips(t *testing.T, f *File, ifd *IFD) [][]byte {
	t.Helper()
	offTag, ok := ifd.Get(types.TagStripOffsets)
	require.True(t, ok, "strip offsets missing")
	countTag, ok := ifd.Get(types.TagStripByteCounts)
	require.True(t, ok, "strip byte counts missing")

	offsets, err := offTag.Uints(f.ByteOrder)
	require.NoError(t, err)
	counts, err := countTag.Uints(f.ByteOrder)
	require.NoError(t, err)
	require.Len(t, counts, len(offsets))

	strips := make([][]byte, len(offsets))
	for i := range offsets {
		buf := make([]byte, counts[i])
		_, err := f.ReadAt(buf, int64(offsets[i]))
		require.NoError(t, err)
		strips[i] = buf
	}
	return strips
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		big   bool
	}{
		{"classic little endian", binary.LittleEndian, false},
		{"classic big endian", binary.BigEndian, false},
		{"bigtiff little endian", binary.LittleEndian, true},
		{"bigtiff big endian", binary.BigEndian, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded := saveAndLoad(t, newStripFile(tt.order, tt.big))

			assert.Equal(t, tt.order, loaded.ByteOrder)
			assert.Equal(t, tt.big, loaded.BigTIFF)
			require.Len(t, loaded.IFDs, 2)

			page := loaded.IFDs[0]
			desc, ok := page.Get(types.TagImageDescription)
			require.True(t, ok)
			assert.Equal(t, "Aperio Image Library v12|Date = 01/02/20|Time = 03:04:05", desc.ASCII())
			assert.Equal(t, types.DatatypeASCII, desc.Type)

			dt, ok := page.Get(types.TagDateTime)
			require.True(t, ok)
			assert.Equal(t, "2020:01:02 03:04:05", dt.ASCII())

			strips := readStrips(t, loaded, page)
			assert.Equal(t, []byte("0123456789"), strips[0])
			assert.Equal(t, []byte("abcdef"), strips[1])

			chains := page.SubIFDs[types.TagSubIFDs]
			require.Len(t, chains, 1)
			require.Len(t, chains[0], 2)
			childDate, ok := chains[0][1].Get(types.TagDateTime)
			require.True(t, ok)
			assert.Equal(t, "2020:01:02 03:04:07", childDate.ASCII())

			label, ok := loaded.IFDs[1].Get(types.TagImageDescription)
			require.True(t, ok)
			assert.Equal(t, "label", label.ASCII())
		})
	}
}

func TestEncodeSharedBlocksWrittenOnce(t *testing.T) {
	order := binary.LittleEndian
	f := New(order, false)
	f.src = bytes.NewReader(pixels)
	f.size = int64(len(pixels))

	page := NewIFD()
	page.Set(types.TagTileOffsets, newUintTag(types.DatatypeLong, order, []uint64{4, 4, 0}))
	page.Set(types.TagTileByteCounts, newUintTag(types.DatatypeLong, order, []uint64{4, 4, 0}))
	f.IFDs = []*IFD{page}

	loaded := saveAndLoad(t, f)

	offTag, ok := loaded.IFDs[0].Get(types.TagTileOffsets)
	require.True(t, ok)
	offsets, err := offTag.Uints(loaded.ByteOrder)
	require.NoError(t, err)
	require.Len(t, offsets, 3)
	assert.Equal(t, offsets[0], offsets[1])
	assert.Equal(t, uint64(0), offsets[2], "empty tiles keep a zero offset")

	buf := make([]byte, 4)
	_, err = loaded.ReadAt(buf, int64(offsets[0]))
	require.NoError(t, err)
	assert.Equal(t, []byte("4567"), buf)
}

func TestEncodeLeavesTreeUnchanged(t *testing.T) {
	f := newStripFile(binary.LittleEndian, false)
	before, ok := f.IFDs[0].Get(types.TagStripOffsets)
	require.True(t, ok)
	beforeData := append([]byte(nil), before.Data...)

	saveAndLoad(t, f)

	after, ok := f.IFDs[0].Get(types.TagStripOffsets)
	require.True(t, ok)
	assert.Equal(t, beforeData, after.Data)
}

func TestSaveRefusesExistingTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.tif")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	err := Save(newStripFile(binary.LittleEndian, false), path, false)
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, path, writeErr.Path)
	assert.ErrorIs(t, err, ErrExists)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), content)
}

func TestSaveOverSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slide.svs")
	require.NoError(t, Save(newStripFile(binary.LittleEndian, false), path, false))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path())
	f.IFDs[0].Delete(types.TagDateTime)
	require.NoError(t, Save(f, path, true))
	require.NoError(t, f.Close())

	reloaded, err := Load(path)
	require.NoError(t, err)
	defer reloaded.Close()

	_, ok := reloaded.IFDs[0].Get(types.TagDateTime)
	assert.False(t, ok)
	strips := readStrips(t, reloaded, reloaded.IFDs[0])
	assert.Equal(t, []byte("0123456789"), strips[0])

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files must be cleaned up")
}

func TestEncodeMissingSource(t *testing.T) {
	f := newStripFile(binary.LittleEndian, false)
	f.src = nil

	err := Save(f, filepath.Join(t.TempDir(), "out.tif"), false)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestLoadErrors(t *testing.T) {
	le := binary.LittleEndian

	cycle := make([]byte, 14)
	copy(cycle, "II")
	le.PutUint16(cycle[2:4], 42)
	le.PutUint32(cycle[4:8], 8)
	le.PutUint16(cycle[8:10], 0)
	le.PutUint32(cycle[10:14], 8)

	outOfRange := make([]byte, 8)
	copy(outOfRange, "II")
	le.PutUint16(outOfRange[2:4], 42)
	le.PutUint32(outOfRange[4:8], 1000)

	badValue := make([]byte, 26)
	copy(badValue, "II")
	le.PutUint16(badValue[2:4], 42)
	le.PutUint32(badValue[4:8], 8)
	le.PutUint16(badValue[8:10], 1)
	le.PutUint16(badValue[10:12], uint16(types.TagImageDescription))
	le.PutUint16(badValue[12:14], uint16(types.DatatypeASCII))
	le.PutUint32(badValue[14:18], 100)
	le.PutUint32(badValue[18:22], 4000)

	tests := []struct {
		name    string
		content []byte
		want    error
	}{
		{"not a tiff", []byte("%PDF-1.7 not an image"), ErrInvalidHeader},
		{"too small", []byte("II"), ErrInvalidHeader},
		{"bad magic", []byte{'I', 'I', 41, 0, 8, 0, 0, 0}, ErrInvalidHeader},
		{"ifd cycle", cycle, ErrCycle},
		{"first ifd out of range", outOfRange, ErrOutOfRange},
		{"value out of range", badValue, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.tif")
			require.NoError(t, os.WriteFile(path, tt.content, 0o644))

			f, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, f)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, path, loadErr.Path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.svs")
	_, err := Load(path)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestTagHelpers(t *testing.T) {
	tag := NewASCIITag("1970:01:01 00:00:00")
	assert.Equal(t, 20, tag.ByteLength())
	assert.Equal(t, uint64(20), tag.Count)
	assert.Equal(t, "1970:01:01 00:00:00", tag.ASCII())

	_, err := NewTag(types.DatatypeShort, []byte{1, 2, 3})
	assert.Error(t, err)

	short, err := NewTag(types.DatatypeShort, []byte{1, 0, 2, 0})
	require.NoError(t, err)
	values, err := short.Uints(binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, values)

	_, err = NewASCIITag("x").Uints(binary.LittleEndian)
	assert.Error(t, err)

	ifd := NewIFD()
	ifd.Set(types.TagDateTime, tag)
	ifd.Set(types.TagImageDescription, NewASCIITag("d"))
	assert.Equal(t, []types.TagID{types.TagImageDescription, types.TagDateTime}, ifd.TagIDs())
	assert.True(t, ifd.Delete(types.TagDateTime))
	assert.False(t, ifd.Delete(types.TagDateTime))
	_, ok := ifd.Get(types.TagDateTime)
	assert.False(t, ok)
}
