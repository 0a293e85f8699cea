// Package testutil builds small slide files on disk for tests.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/internal/types"
)

const (
	// AperioDescription is a minimal Aperio ImageDescription with a date and time.
	AperioDescription = "Aperio Image Library v12.0.15|AppMag = 20|Date = 01/02/20|Time = 03:04:05|MPP = 0.5"

	// AperioDescriptionRedacted is AperioDescription after replacing with the default date.
	AperioDescriptionRedacted = "Aperio Image Library v12.0.15|AppMag = 20|Date = 01/01/70|Time = 00:00:00|MPP = 0.5"

	// OMEDescription is a minimal OME-XML header with an acquisition date.
	OMEDescription = `<?xml version="1.0" encoding="UTF-8"?><OME><Image ID="Image:0">` +
		`<AcquisitionDate>2019-05-01T10:00:00</AcquisitionDate><Pixels ID="Pixels:0"/></Image></OME>`

	// SlideDateTime is the DateTime value written into every page.
	SlideDateTime = "2020:01:02 03:04:05"
)

// Slide describes a file built by WriteSlide.
type Slide struct {
	Description string
	DateTime    bool
	Pages       int
	BigEndian   bool
}

// WriteSlide writes a slide to path and returns path. Every page carries the
// description and, when requested, a DateTime tag.
func WriteSlide(t *testing.T, path string, s Slide) string {
	t.Helper()

	var order binary.ByteOrder = binary.LittleEndian
	if s.BigEndian {
		order = binary.BigEndian
	}
	pages := s.Pages
	if pages < 1 {
		pages = 1
	}

	f := tiff.New(order, false)
	for i := 0; i < pages; i++ {
		ifd := tiff.NewIFD()
		if s.Description != "" {
			ifd.Set(types.TagImageDescription, tiff.NewASCIITag(s.Description))
		}
		if s.DateTime {
			ifd.Set(types.TagDateTime, tiff.NewASCIITag(SlideDateTime))
		}
		f.IFDs = append(f.IFDs, ifd)
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, tiff.Save(f, path, false))
	return path
}

// ReadSlide loads path and returns the first page's description and DateTime.
func ReadSlide(t *testing.T, path string) (description string, dateTime string, hasDateTime bool) {
	t.Helper()

	f, err := tiff.Load(path)
	require.NoError(t, err)
	defer f.Close()
	require.NotEmpty(t, f.IFDs)

	if tag, ok := f.IFDs[0].Get(types.TagImageDescription); ok {
		description = tag.ASCII()
	}
	if tag, ok := f.IFDs[0].Get(types.TagDateTime); ok {
		dateTime, hasDateTime = tag.ASCII(), true
	}
	return description, dateTime, hasDateTime
}
