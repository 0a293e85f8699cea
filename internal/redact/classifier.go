package redact

import (
	"strings"

	"github.com/ncihtan/go-htancensor/internal/interfaces"
	"github.com/ncihtan/go-htancensor/internal/tagstore"
	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/internal/types"
)

const (
	aperioPrefix = "Aperio "
	omeSuffix    = "OME>"
)

// Classify determines the dialect from directory 0. The description decides
// between Aperio and OME-TIFF; the NDPI marker tag, when present, overrides
// either result.
func Classify(store interfaces.TagStore) types.Format {
	root, ok := store.Root()
	if !ok {
		return types.FormatUnknown
	}

	description, _ := store.GetASCII(root, types.TagImageDescription)

	format := types.FormatUnknown
	switch {
	case strings.HasPrefix(description, aperioPrefix):
		format = types.FormatAperio
	case strings.HasSuffix(description, omeSuffix):
		format = types.FormatOMETIFF
	}

	if _, ok := store.Get(root, types.TagNDPIFormatFlag); ok {
		format = types.FormatNDPI
	}
	return format
}

// ClassifyFile is Classify over a loaded file.
func ClassifyFile(f *tiff.File) types.Format {
	return Classify(tagstore.New(f))
}
