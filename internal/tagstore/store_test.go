package tagstore

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/internal/types"
)

// newTree builds:
//
//	0
//	  330 chain 0: a, b
//	    a 34665 chain 0: c
//	  34665 chain 0: d
//	1
func newTree() (*tiff.File, map[string]*tiff.IFD) {
	dirs := map[string]*tiff.IFD{
		"0": tiff.NewIFD(),
		"1": tiff.NewIFD(),
		"a": tiff.NewIFD(),
		"b": tiff.NewIFD(),
		"c": tiff.NewIFD(),
		"d": tiff.NewIFD(),
	}
	dirs["a"].AddSubIFDChain(types.TagExifIFD, dirs["c"])
	dirs["0"].AddSubIFDChain(types.TagExifIFD, dirs["d"])
	dirs["0"].AddSubIFDChain(types.TagSubIFDs, dirs["a"], dirs["b"])

	f := tiff.New(binary.LittleEndian, false)
	f.IFDs = []*tiff.IFD{dirs["0"], dirs["1"]}
	return f, dirs
}

func TestDirectories(t *testing.T) {
	f, dirs := newTree()
	s := New(f)

	t.Run("top level only", func(t *testing.T) {
		entries := s.Directories(false)
		require.Len(t, entries, 2)
		assert.Same(t, dirs["0"], entries[0].IFD)
		assert.Same(t, dirs["1"], entries[1].IFD)
		for i, e := range entries {
			assert.Equal(t, i, e.Index)
			assert.True(t, e.TopLevel())
		}
	})

	t.Run("depth first with children", func(t *testing.T) {
		entries := s.Directories(true)
		require.Len(t, entries, 6)

		want := []struct {
			ifd   *tiff.IFD
			path  string
			depth int
		}{
			{dirs["0"], "0", 0},
			{dirs["a"], "0/330.0.0", 1},
			{dirs["c"], "0/330.0.0/34665.0.0", 2},
			{dirs["b"], "0/330.0.1", 1},
			{dirs["d"], "0/34665.0.0", 1},
			{dirs["1"], "1", 0},
		}
		for i, w := range want {
			assert.Same(t, w.ifd, entries[i].IFD, "entry %d", i)
			assert.Equal(t, w.path, entries[i].Path)
			assert.Equal(t, w.depth, entries[i].Depth)
			assert.Equal(t, i, entries[i].Index)
		}
	})

	t.Run("stable across calls", func(t *testing.T) {
		assert.Equal(t, s.Directories(true), s.Directories(true))
	})
}

func TestRoot(t *testing.T) {
	s := New(tiff.New(binary.LittleEndian, false))
	_, ok := s.Root()
	assert.False(t, ok)

	f, dirs := newTree()
	root, ok := New(f).Root()
	require.True(t, ok)
	assert.Same(t, dirs["0"], root)
}

func TestTagAccess(t *testing.T) {
	f, dirs := newTree()
	s := New(f)
	dir := dirs["b"]

	_, ok := s.Get(dir, types.TagDateTime)
	assert.False(t, ok, "absent tag is reported, not raised")
	_, ok = s.Get(nil, types.TagDateTime)
	assert.False(t, ok)

	s.SetASCII(dir, types.TagDateTime, "1970:01:01 00:00:00")
	text, ok := s.GetASCII(dir, types.TagDateTime)
	require.True(t, ok)
	assert.Equal(t, "1970:01:01 00:00:00", text)

	require.NoError(t, s.Set(dir, types.TagNDPIFormatFlag, types.DatatypeLong, []byte{1, 0, 0, 0}))
	tag, ok := s.Get(dir, types.TagNDPIFormatFlag)
	require.True(t, ok)
	assert.Equal(t, uint64(1), tag.Count)
	_, ok = s.GetASCII(dir, types.TagNDPIFormatFlag)
	assert.False(t, ok, "non-ASCII tag has no text")

	assert.Error(t, s.Set(dir, types.TagNDPIFormatFlag, types.DatatypeLong, []byte{1, 0}))

	assert.True(t, s.Delete(dir, types.TagDateTime))
	assert.False(t, s.Delete(dir, types.TagDateTime))
	assert.False(t, s.Delete(nil, types.TagDateTime))
}
