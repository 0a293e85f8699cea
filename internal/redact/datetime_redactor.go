package redact

import (
	"github.com/ncihtan/go-htancensor/internal/interfaces"
	"github.com/ncihtan/go-htancensor/internal/types"
)

// RedactorDateTime is the report name of the DateTime tag redactor.
const RedactorDateTime = "datetime"

// dateTimeRedactor handles the baseline DateTime tag (306) in every
// directory, children included.
type dateTimeRedactor struct{}

// NewDateTimeRedactor creates the DateTime tag redactor
func NewDateTimeRedactor() interfaces.Redactor {
	return dateTimeRedactor{}
}

func (dateTimeRedactor) Name() string {
	return RedactorDateTime
}

func (dateTimeRedactor) IncludeSubIFDs() bool {
	return true
}

func (dateTimeRedactor) Probe(store interfaces.TagStore, entry interfaces.DirectoryEntry) bool {
	_, ok := store.Get(entry.IFD, types.TagDateTime)
	return ok
}

func (dateTimeRedactor) Redact(store interfaces.TagStore, entry interfaces.DirectoryEntry, mode types.Mode) (int, error) {
	switch mode.Action {
	case types.ActionRemove:
		if store.Delete(entry.IFD, types.TagDateTime) {
			return 1, nil
		}
		return 0, nil
	case types.ActionReplace:
		if _, ok := store.Get(entry.IFD, types.TagDateTime); !ok {
			return 0, nil
		}
		store.SetASCII(entry.IFD, types.TagDateTime, mode.Replacement)
		return 1, nil
	}
	return 0, ValidateMode(mode)
}
