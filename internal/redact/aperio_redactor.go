package redact

import (
	"regexp"

	"github.com/ncihtan/go-htancensor/internal/interfaces"
	"github.com/ncihtan/go-htancensor/internal/types"
)

// RedactorAperio is the report name of the Aperio description redactor.
const RedactorAperio = "aperio_description"

// Aperio descriptions are "|" separated "Key = value" fields, e.g.
// "Aperio Image Library v12.0.15|...|Date = 01/02/20|Time = 03:04:05|...".
// The year is two or four digits and must end the value.
var (
	aperioDate        = regexp.MustCompile(`Date = \d{2}/\d{2}/(?:\d{4}|\d{2})\b`)
	aperioTime        = regexp.MustCompile(`Time = \d{2}:\d{2}:\d{2}\b`)
	aperioDateSegment = regexp.MustCompile(`\|?Date = \d{2}/\d{2}/(?:\d{4}|\d{2})\b`)
	aperioTimeSegment = regexp.MustCompile(`\|?Time = \d{2}:\d{2}:\d{2}\b`)
)

// aperioLongDate is the length of a Date field with a four digit year.
const aperioLongDate = len("Date = 01/01/1970")

// aperioRedactor rewrites the Date and Time fields of an Aperio SVS
// ImageDescription in top-level directories.
type aperioRedactor struct{}

// NewAperioRedactor creates the Aperio description redactor
func NewAperioRedactor() interfaces.Redactor {
	return aperioRedactor{}
}

func (aperioRedactor) Name() string {
	return RedactorAperio
}

func (aperioRedactor) IncludeSubIFDs() bool {
	return false
}

func (aperioRedactor) Probe(store interfaces.TagStore, entry interfaces.DirectoryEntry) bool {
	if !entry.TopLevel() {
		return false
	}
	text, ok := store.GetASCII(entry.IFD, types.TagImageDescription)
	return ok && aperioDate.MatchString(text)
}

func (r aperioRedactor) Redact(store interfaces.TagStore, entry interfaces.DirectoryEntry, mode types.Mode) (int, error) {
	if !r.Probe(store, entry) {
		return 0, nil
	}
	text, _ := store.GetASCII(entry.IFD, types.TagImageDescription)
	occurrences := len(aperioDate.FindAllStringIndex(text, -1))

	var out string
	switch mode.Action {
	case types.ActionRemove:
		out = aperioDateSegment.ReplaceAllLiteralString(text, "")
		out = aperioTimeSegment.ReplaceAllLiteralString(out, "")
	case types.ActionReplace:
		short, long, clock := aperioDateTime(mode.Replacement)
		// Each field keeps its width, so the description keeps its length.
		out = aperioDate.ReplaceAllStringFunc(text, func(field string) string {
			if len(field) == aperioLongDate {
				return "Date = " + long
			}
			return "Date = " + short
		})
		out = aperioTime.ReplaceAllLiteralString(out, "Time = "+clock)

		// Keep the original encoding, NUL padding included.
		tag, _ := store.Get(entry.IFD, types.TagImageDescription)
		data := make([]byte, tag.ByteLength())
		copy(data, out)
		if err := store.Set(entry.IFD, types.TagImageDescription, types.DatatypeASCII, data); err != nil {
			return 0, err
		}
		return occurrences, nil
	default:
		return 0, ValidateMode(mode)
	}

	store.SetASCII(entry.IFD, types.TagImageDescription, out)
	return occurrences, nil
}
