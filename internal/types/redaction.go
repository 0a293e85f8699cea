package types

// Action selects what a redactor does with a matching field.
type Action int

const (
	// ActionRemove deletes the field.
	ActionRemove Action = iota
	// ActionReplace overwrites the field with a fixed date.
	ActionReplace
)

func (a Action) String() string {
	switch a {
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Mode is a redaction request. Replacement is only used with ActionReplace
// and holds a "YYYY:MM:DD HH:MM:SS" value.
type Mode struct {
	Action      Action
	Replacement string
}
