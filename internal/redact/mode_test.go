package redact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncihtan/go-htancensor/internal/types"
)

func TestValidateMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    types.Mode
		wantErr bool
	}{
		{"remove", Remove(), false},
		{"replace canonical", Replace("1970:01:01 00:00:00"), false},
		{"replace default", Replace(DefaultReplacement), false},
		{"replace end of year", Replace("2021:12:31 23:59:59"), false},
		{"hyphenated date", Replace("1970-01-01 00:00:00"), true},
		{"iso layout", Replace("1970-01-01T00:00:00"), true},
		{"too short", Replace("1970:01:01 00:00"), true},
		{"too long", Replace("1970:01:01 00:00:00Z"), true},
		{"empty", Replace(""), true},
		{"letters", Replace("abcd:ef:gh ij:kl:mn"), true},
		{"month out of range", Replace("1970:13:01 00:00:00"), true},
		{"unknown action", types.Mode{Action: types.Action(7)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMode(tt.mode)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestValidateReplacementReasons(t *testing.T) {
	err := ValidateReplacement("1970:01:01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 19 characters")

	err = ValidateReplacement("1970-01-01 00:00:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY:MM:DD HH:MM:SS")
}

func TestAperioDateTime(t *testing.T) {
	tests := []struct {
		value string
		short string
		long  string
		clock string
	}{
		{"1970:01:01 00:00:00", "01/01/70", "01/01/1970", "00:00:00"},
		{"2021:12:31 23:59:58", "12/31/21", "12/31/2021", "23:59:58"},
		{"2005:07:04 08:09:10", "07/04/05", "07/04/2005", "08:09:10"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			short, long, clock := aperioDateTime(tt.value)
			assert.Equal(t, tt.short, short)
			assert.Equal(t, tt.long, long)
			assert.Equal(t, tt.clock, clock)
		})
	}
}
