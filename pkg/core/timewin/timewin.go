// Package timewin implements the minutes-from-midnight interval arithmetic
// shared by shift windows, flight busy windows, and availability queries.
// Intervals are plain ints with no date anchor: values may be negative or
// exceed a day and are normalized into the daily cycle only here.
package timewin

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hqvu/groundroster/pkg/core/model"
)

// MinutesPerDay is the length of the daily cycle.
const MinutesPerDay = 1440

var clockRe = regexp.MustCompile(`(\d{1,2}:\d{2})(:\d{2})?`)

// span is a normalized half-open sub-range within [0, 1440].
type span struct {
	start, end int
}

// normalize shifts the pair by whole days until start lies in [0,1440),
// then splits inverted (crosses midnight) or overflowing pairs into the
// sub-ranges they cover.
func normalize(start, end int) []span {
	for start < 0 {
		start += MinutesPerDay
		end += MinutesPerDay
	}
	for start >= MinutesPerDay {
		start -= MinutesPerDay
		end -= MinutesPerDay
	}

	switch {
	case start > end:
		return []span{{start, MinutesPerDay}, {0, end}}
	case end > MinutesPerDay:
		return []span{{start, MinutesPerDay}, {0, end - MinutesPerDay}}
	default:
		return []span{{start, end}}
	}
}

// Overlap reports whether the two windows share any time within the daily
// cycle. Half-open semantics: touching endpoints do not overlap.
func Overlap(aStart, aEnd, bStart, bEnd int) bool {
	for _, a := range normalize(aStart, aEnd) {
		for _, b := range normalize(bStart, bEnd) {
			if max(a.start, b.start) < min(a.end, b.end) {
				return true
			}
		}
	}
	return false
}

// ToMinutes parses an "HH:MM" string into minutes from midnight. Anything
// unparsable yields 0, mirroring how the roster treats blank time inputs.
func ToMinutes(clock string) int {
	h, m, ok := strings.Cut(clock, ":")
	if !ok {
		return 0
	}
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0
	}
	mins, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0
	}
	return hours*60 + mins
}

// Clock renders minutes from midnight as "HH:MM", folding into the daily
// cycle first so negative and next-day values display as wall-clock times.
func Clock(minutes int) string {
	m := minutes
	for m < 0 {
		m += MinutesPerDay
	}
	for m >= MinutesPerDay {
		m -= MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatCell renders a cell that is supposed to hold a time as "HH:MM".
// Strings keep their first embedded H:MM run, date cells use their clock
// part, and numbers are treated as Excel day fractions (values past 1.0 are
// next-day times and fold back into the day). Blank cells render "-".
func FormatCell(cell model.CellValue) string {
	switch cell.Kind {
	case model.CellEmpty:
		return "-"
	case model.CellText:
		if cell.Text == "" {
			return "-"
		}
		if m := clockRe.FindStringSubmatch(cell.Text); m != nil {
			return m[1]
		}
		return cell.Text
	case model.CellTime:
		return cell.Time.Format("15:04")
	case model.CellNumber:
		total := int(math.Round(cell.Number * MinutesPerDay))
		return fmt.Sprintf("%02d:%02d", (total/60)%24, total%60)
	default:
		return "-"
	}
}

// CellMinutes converts a time-looking cell into minutes from midnight via
// its HH:MM rendering. The bool is false when the cell has no usable time.
func CellMinutes(cell model.CellValue) (int, bool) {
	s := FormatCell(cell)
	if s == "-" || !strings.Contains(s, ":") {
		return 0, false
	}
	return ToMinutes(s), true
}
