package redact

import (
	"encoding/binary"

	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/internal/types"
)

const (
	aperioDescription = "Aperio Image|Date = 01/02/20|Time = 03:04:05|End"
	omeDescription    = `<?xml version="1.0" encoding="UTF-8"?><OME><Image ID="Image:0">` +
		`<AcquisitionDate>2019-05-01T10:00:00</AcquisitionDate><Pixels ID="Pixels:0"/></Image>` +
		`<StructuredAnnotations><XMLAnnotation ID="Annotation:0"><Value>scanner 2019-05-01</Value>` +
		`</XMLAnnotation></StructuredAnnotations></OME>`
)

// page returns a directory with an optional description and DateTime.
func page(description string, dateTime bool) *tiff.IFD {
	ifd := tiff.NewIFD()
	if description != "" {
		ifd.Set(types.TagImageDescription, tiff.NewASCIITag(description))
	}
	if dateTime {
		ifd.Set(types.TagDateTime, tiff.NewASCIITag("2020:01:02 03:04:05"))
	}
	return ifd
}

// newFile returns a file whose first page has a sub-IFD chain of two
// children carrying the same description, and a second top-level page.
func newFile(description string) *tiff.File {
	root := page(description, true)
	root.AddSubIFDChain(types.TagSubIFDs, page(description, true), page(description, false))

	f := tiff.New(binary.LittleEndian, false)
	f.IFDs = []*tiff.IFD{root, page(description, true)}
	return f
}

func description(ifd *tiff.IFD) string {
	t, ok := ifd.Get(types.TagImageDescription)
	if !ok {
		return ""
	}
	return t.ASCII()
}

func dateTime(ifd *tiff.IFD) (string, bool) {
	t, ok := ifd.Get(types.TagDateTime)
	if !ok {
		return "", false
	}
	return t.ASCII(), true
}

// allDirectories flattens the tree depth-first.
func allDirectories(f *tiff.File) []*tiff.IFD {
	var out []*tiff.IFD
	var visit func(*tiff.IFD)
	visit = func(ifd *tiff.IFD) {
		out = append(out, ifd)
		for _, id := range types.SubIFDTags {
			for _, chain := range ifd.SubIFDs[id] {
				for _, child := range chain {
					visit(child)
				}
			}
		}
	}
	for _, ifd := range f.IFDs {
		visit(ifd)
	}
	return out
}
