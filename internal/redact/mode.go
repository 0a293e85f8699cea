package redact

import (
	"regexp"
	"time"

	"github.com/ncihtan/go-htancensor/internal/types"
)

// DefaultReplacement is the date written when a replacement is requested
// without a value.
const DefaultReplacement = "1970:01:01 00:00:00"

var canonicalDateTime = regexp.MustCompile(`^\d{4}:\d{2}:\d{2} \d{2}:\d{2}:\d{2}$`)

// Remove returns a mode that deletes date fields.
func Remove() types.Mode {
	return types.Mode{Action: types.ActionRemove}
}

// Replace returns a mode that overwrites date fields with value, which must
// use the "YYYY:MM:DD HH:MM:SS" layout.
func Replace(value string) types.Mode {
	return types.Mode{Action: types.ActionReplace, Replacement: value}
}

// ValidateMode checks a mode before anything is mutated.
func ValidateMode(mode types.Mode) error {
	switch mode.Action {
	case types.ActionRemove:
		return nil
	case types.ActionReplace:
		return ValidateReplacement(mode.Replacement)
	default:
		return &ValidationError{
			Field:  "action",
			Value:  mode.Action.String(),
			Reason: "must be remove or replace",
		}
	}
}

// ValidateReplacement checks length, layout and calendar validity of a
// replacement DateTime value.
func ValidateReplacement(value string) error {
	if len(value) != types.DateTimeLength {
		return &ValidationError{
			Field:  "replacement date",
			Value:  value,
			Reason: "must be exactly 19 characters",
		}
	}
	if !canonicalDateTime.MatchString(value) {
		return &ValidationError{
			Field:  "replacement date",
			Value:  value,
			Reason: "must use the YYYY:MM:DD HH:MM:SS layout",
		}
	}
	if _, err := time.Parse(types.DateTimeLayout, value); err != nil {
		return &ValidationError{
			Field:  "replacement date",
			Value:  value,
			Reason: "is not a calendar date: " + err.Error(),
		}
	}
	return nil
}

// aperioDateTime converts a validated "YYYY:MM:DD HH:MM:SS" value to the
// Aperio "MM/DD/YY" and "MM/DD/YYYY" dates and the "HH:MM:SS" time.
func aperioDateTime(value string) (short, long, clock string) {
	monthDay := value[5:7] + "/" + value[8:10] + "/"
	return monthDay + value[2:4], monthDay + value[0:4], value[11:19]
}
