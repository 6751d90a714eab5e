package shiftcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BaseCodes(t *testing.T) {
	tests := []struct {
		token    string
		start    int
		end      int
		duration float64
	}{
		{"HC", 450, 930, 8},
		{"S", 360, 840, 8},
		{"X", 840, 1320, 8},
		{"A", 1320, 360, 8},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			shift := Parse(tt.token)
			require.NotNil(t, shift)
			assert.Equal(t, tt.start, shift.Start)
			assert.Equal(t, tt.end, shift.End)
			assert.Equal(t, tt.duration, shift.DurationHours)
			assert.False(t, shift.IsDirect)
		})
	}
}

func TestParse_PrefixAdjustsStart(t *testing.T) {
	// A bare numeric prefix starts the shift earlier; a dashed prefix
	// starts it later.
	earlier := Parse("1HC")
	require.NotNil(t, earlier)
	assert.Equal(t, 390, earlier.Start)
	assert.Equal(t, 930, earlier.End)
	assert.Equal(t, 9.0, earlier.DurationHours)

	later := Parse("1-HC")
	require.NotNil(t, later)
	assert.Equal(t, 510, later.Start)
	assert.Equal(t, 7.0, later.DurationHours)
}

func TestParse_SuffixAdjustsEnd(t *testing.T) {
	longer := Parse("HC1")
	require.NotNil(t, longer)
	assert.Equal(t, 450, longer.Start)
	assert.Equal(t, 990, longer.End)
	assert.Equal(t, 9.0, longer.DurationHours)

	shorter := Parse("HC-1")
	require.NotNil(t, shorter)
	assert.Equal(t, 870, shorter.End)
	assert.Equal(t, 7.0, shorter.DurationHours)
}

func TestParse_FractionalAdjustment(t *testing.T) {
	shift := Parse("0.5S")
	require.NotNil(t, shift)
	assert.Equal(t, 330, shift.Start)
	assert.Equal(t, 8.5, shift.DurationHours)
}

func TestParse_MidnightWrap(t *testing.T) {
	// A runs 22:00-06:00: raw end precedes start and the duration comes
	// from the +24h wrap.
	shift := Parse("A")
	require.NotNil(t, shift)
	assert.Greater(t, shift.Start, shift.End)
	assert.Equal(t, 8.0, shift.DurationHours)

	// Every other base code is a plain same-day window.
	for _, code := range []string{"HC", "S", "X"} {
		s := Parse(code)
		require.NotNil(t, s)
		assert.Greater(t, s.End, s.Start, code)
		assert.Equal(t, float64(s.End-s.Start)/60, s.DurationHours, code)
	}
}

func TestParse_DirectCodes(t *testing.T) {
	bare := Parse("H")
	require.NotNil(t, bare)
	assert.True(t, bare.IsDirect)
	assert.Equal(t, 0.0, bare.DurationHours)
	assert.Equal(t, "Học", bare.Label)

	training := Parse("H2")
	require.NotNil(t, training)
	assert.True(t, training.IsDirect)
	assert.Equal(t, 2.0, training.DurationHours)
	assert.Contains(t, training.Label, "Học")

	meeting := Parse("m1.5")
	require.NotNil(t, meeting)
	assert.True(t, meeting.IsDirect)
	assert.Equal(t, 1.5, meeting.DurationHours)
	assert.Equal(t, "Họp 1.5h", meeting.Label)
}

func TestParse_DirectDoesNotSwallowBaseShift(t *testing.T) {
	// HC1 must stay a base shift with a suffix, never an H-something
	// direct code.
	shift := Parse("HC1")
	require.NotNil(t, shift)
	assert.False(t, shift.IsDirect)
}

func TestParse_Unrecognized(t *testing.T) {
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("   "))
	assert.Nil(t, Parse("ZZZ"))
	assert.Nil(t, Parse("MC"))
	assert.Nil(t, Parse("12:30"))

	// Non-working markers are the aggregator's business, not the parser's.
	assert.Nil(t, Parse("OFF"))
	assert.Nil(t, Parse("LS"))
}

func TestIsNonWorking(t *testing.T) {
	assert.True(t, IsNonWorking("OFF"))
	assert.True(t, IsNonWorking(" off "))
	assert.True(t, IsNonWorking("LS"))
	assert.True(t, IsNonWorking("CO"))

	assert.False(t, IsNonWorking("HC"))
	assert.False(t, IsNonWorking("H3"))
	assert.False(t, IsNonWorking(""))
}

func TestBaseShiftFor(t *testing.T) {
	base, ok := BaseShiftFor("a")
	require.True(t, ok)
	assert.True(t, base.CrossesMidnight)

	_, ok = BaseShiftFor("OFF")
	assert.False(t, ok)
}
