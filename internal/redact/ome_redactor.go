package redact

import (
	"regexp"

	"github.com/ncihtan/go-htancensor/internal/interfaces"
	"github.com/ncihtan/go-htancensor/internal/types"
)

const (
	// RedactorOMEAcquisitionDate is the report name of the AcquisitionDate pass.
	RedactorOMEAcquisitionDate = "ome_acquisition_date"
	// RedactorOMEStructuredAnnotations is the report name of the
	// StructuredAnnotations pass.
	RedactorOMEStructuredAnnotations = "ome_structured_annotations"
)

var (
	omeAcquisitionDate = regexp.MustCompile(
		`<AcquisitionDate>\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[^<]*</AcquisitionDate>`)

	// Greedy: everything from the first opening tag to the last closing tag.
	omeStructuredAnnotations = regexp.MustCompile(
		`(?s)<StructuredAnnotations(?:\s[^>]*)?>.*</StructuredAnnotations>`)
)

// omeElementRedactor removes every match of an element pattern from the OME
// XML held in top-level ImageDescription tags. The OME dialect only
// supports removal, so the mode's action is ignored.
type omeElementRedactor struct {
	name    string
	pattern *regexp.Regexp
}

// NewAcquisitionDateRedactor creates the OME AcquisitionDate pass
func NewAcquisitionDateRedactor() interfaces.Redactor {
	return omeElementRedactor{name: RedactorOMEAcquisitionDate, pattern: omeAcquisitionDate}
}

// NewStructuredAnnotationsRedactor creates the OME StructuredAnnotations pass
func NewStructuredAnnotationsRedactor() interfaces.Redactor {
	return omeElementRedactor{name: RedactorOMEStructuredAnnotations, pattern: omeStructuredAnnotations}
}

func (r omeElementRedactor) Name() string {
	return r.name
}

func (omeElementRedactor) IncludeSubIFDs() bool {
	return false
}

func (r omeElementRedactor) Probe(store interfaces.TagStore, entry interfaces.DirectoryEntry) bool {
	if !entry.TopLevel() {
		return false
	}
	text, ok := store.GetASCII(entry.IFD, types.TagImageDescription)
	return ok && r.pattern.MatchString(text)
}

func (r omeElementRedactor) Redact(store interfaces.TagStore, entry interfaces.DirectoryEntry, _ types.Mode) (int, error) {
	if !r.Probe(store, entry) {
		return 0, nil
	}
	text, _ := store.GetASCII(entry.IFD, types.TagImageDescription)
	occurrences := len(r.pattern.FindAllStringIndex(text, -1))
	store.SetASCII(entry.IFD, types.TagImageDescription, r.pattern.ReplaceAllLiteralString(text, ""))
	return occurrences, nil
}
