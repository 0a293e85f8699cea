// Package types holds the on-disk constants of the TIFF container family
// (baseline TIFF 6.0, BigTIFF and the vendor dialects layered on top of it).
package types

// TIFF header (TIFF 6.0, section 2; BigTIFF extension)

const (
	// ByteOrderLittle is the "II" byte order mark.
	ByteOrderLittle = "II"
	// ByteOrderBig is the "MM" byte order mark.
	ByteOrderBig = "MM"

	// MagicClassic identifies a classic TIFF with 32-bit offsets.
	MagicClassic uint16 = 42
	// MagicBigTIFF identifies a BigTIFF with 64-bit offsets.
	MagicBigTIFF uint16 = 43

	// ClassicHeaderSize is the size of a classic TIFF header.
	ClassicHeaderSize = 8
	// BigTIFFHeaderSize is the size of a BigTIFF header.
	BigTIFFHeaderSize = 16

	// ClassicEntrySize is the size of one classic IFD entry.
	ClassicEntrySize = 12
	// BigTIFFEntrySize is the size of one BigTIFF IFD entry.
	BigTIFFEntrySize = 20

	// MaxClassicOffset is the largest offset a classic TIFF can address.
	MaxClassicOffset = 1<<32 - 1
)

// Datatype is the field type of a TIFF tag.
type Datatype uint16

const (
	DatatypeByte      Datatype = 1
	DatatypeASCII     Datatype = 2
	DatatypeShort     Datatype = 3
	DatatypeLong      Datatype = 4
	DatatypeRational  Datatype = 5
	DatatypeSByte     Datatype = 6
	DatatypeUndefined Datatype = 7
	DatatypeSShort    Datatype = 8
	DatatypeSLong     Datatype = 9
	DatatypeSRational Datatype = 10
	DatatypeFloat     Datatype = 11
	DatatypeDouble    Datatype = 12
	DatatypeIFD       Datatype = 13
	DatatypeLong8     Datatype = 16
	DatatypeSLong8    Datatype = 17
	DatatypeIFD8      Datatype = 18
)

var datatypeSizes = map[Datatype]int{
	DatatypeByte:      1,
	DatatypeASCII:     1,
	DatatypeShort:     2,
	DatatypeLong:      4,
	DatatypeRational:  8,
	DatatypeSByte:     1,
	DatatypeUndefined: 1,
	DatatypeSShort:    2,
	DatatypeSLong:     4,
	DatatypeSRational: 8,
	DatatypeFloat:     4,
	DatatypeDouble:    8,
	DatatypeIFD:       4,
	DatatypeLong8:     8,
	DatatypeSLong8:    8,
	DatatypeIFD8:      8,
}

var datatypeNames = map[Datatype]string{
	DatatypeByte:      "BYTE",
	DatatypeASCII:     "ASCII",
	DatatypeShort:     "SHORT",
	DatatypeLong:      "LONG",
	DatatypeRational:  "RATIONAL",
	DatatypeSByte:     "SBYTE",
	DatatypeUndefined: "UNDEFINED",
	DatatypeSShort:    "SSHORT",
	DatatypeSLong:     "SLONG",
	DatatypeSRational: "SRATIONAL",
	DatatypeFloat:     "FLOAT",
	DatatypeDouble:    "DOUBLE",
	DatatypeIFD:       "IFD",
	DatatypeLong8:     "LONG8",
	DatatypeSLong8:    "SLONG8",
	DatatypeIFD8:      "IFD8",
}

// Size returns the number of bytes one value of the datatype occupies,
// or 0 if the datatype is unknown.
func (d Datatype) Size() int {
	return datatypeSizes[d]
}

// Valid reports whether the datatype is one this package understands.
func (d Datatype) Valid() bool {
	_, ok := datatypeSizes[d]
	return ok
}

// IsOffset reports whether values of this datatype can hold file offsets.
func (d Datatype) IsOffset() bool {
	switch d {
	case DatatypeShort, DatatypeLong, DatatypeIFD, DatatypeLong8, DatatypeIFD8:
		return true
	}
	return false
}

func (d Datatype) String() string {
	if name, ok := datatypeNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// TagID identifies a tag within an IFD.
type TagID uint16

// Baseline and extension tags the redaction engine and codec care about.
const (
	TagImageDescription        TagID = 270
	TagStripOffsets            TagID = 273
	TagStripByteCounts         TagID = 279
	TagDateTime                TagID = 306
	TagTileOffsets             TagID = 324
	TagTileByteCounts          TagID = 325
	TagSubIFDs                 TagID = 330
	TagJPEGInterchangeFormat   TagID = 513
	TagJPEGInterchangeFormatLn TagID = 514
	TagExifIFD                 TagID = 34665
	TagGPSIFD                  TagID = 34853
	TagInteroperabilityIFD     TagID = 40965

	// TagNDPIFormatFlag is the first Hamamatsu NDPI private tag; its presence
	// marks a file as written by an NDPI scanner.
	TagNDPIFormatFlag TagID = 65420
)

// SubIFDTags lists the pointer tags whose values are offsets of child IFDs,
// in the order children are visited.
var SubIFDTags = []TagID{
	TagSubIFDs,
	TagExifIFD,
	TagGPSIFD,
	TagInteroperabilityIFD,
}

// IsSubIFDTag reports whether the tag points at child IFDs.
func IsSubIFDTag(id TagID) bool {
	for _, t := range SubIFDTags {
		if t == id {
			return true
		}
	}
	return false
}

// DataBlockPair links a tag holding offsets of opaque data blocks to the tag
// holding their byte counts.
type DataBlockPair struct {
	Offsets    TagID
	ByteCounts TagID
}

// DataBlockPairs are copied verbatim when a file is re-encoded.
var DataBlockPairs = []DataBlockPair{
	{TagStripOffsets, TagStripByteCounts},
	{TagTileOffsets, TagTileByteCounts},
	{TagJPEGInterchangeFormat, TagJPEGInterchangeFormatLn},
}

// Format is the dialect of a TIFF-family file.
type Format string

const (
	FormatAperio  Format = "aperio"
	FormatOMETIFF Format = "ometiff"
	FormatNDPI    Format = "ndpi"
	FormatUnknown Format = "unknown"
)

// DateTimeLayout is the TIFF textual date convention "YYYY:MM:DD HH:MM:SS".
const DateTimeLayout = "2006:01:02 15:04:05"

// DateTimeLength is the length of a DateTime value without its NUL terminator.
const DateTimeLength = 19
