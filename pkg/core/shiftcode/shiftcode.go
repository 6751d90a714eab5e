// Package shiftcode parses the roster's compact shift-code notation.
//
// A token is either a named base shift, optionally adjusted at both ends
// ("HC", "-1HC", "HC1", "1-X-0.5"), a direct training/meeting code whose
// duration is written into the token ("H", "M", "H2", "M1.5B"), or a
// non-working marker ("OFF", "LS", ...). Anything else is an unknown code;
// unknown is a classification, never an error.
package shiftcode

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hqvu/groundroster/pkg/core/model"
)

// BaseShift is one named shift template. Start/End are minutes from
// midnight; A crosses midnight so its raw End precedes its Start.
type BaseShift struct {
	Start           int
	End             int
	DurationHours   float64
	CrossesMidnight bool
}

// baseShifts is the fixed catalog of working base codes. The notation also
// knows zero-duration absence codes (OFF, LS, LC, H3, NB, CO); those are
// handled by the aggregator's non-working set, not the parser, so a bare
// "OFF" deliberately fails to parse here.
var baseShifts = map[string]BaseShift{
	"HC": {Start: 7*60 + 30, End: 15*60 + 30, DurationHours: 8},
	"S":  {Start: 6 * 60, End: 14 * 60, DurationHours: 8},
	"X":  {Start: 14 * 60, End: 22 * 60, DurationHours: 8},
	"A":  {Start: 22 * 60, End: 6 * 60, DurationHours: 8, CrossesMidnight: true},
}

// nonWorking are the absence codes the aggregator classifies as "off".
// H3 is absent: it parses as a 3h training code before this set is ever
// consulted, matching how schedulers actually use it.
var nonWorking = map[string]struct{}{
	"OFF": {},
	"LS":  {},
	"LC":  {},
	"NB":  {},
	"CO":  {},
}

var (
	directRe = regexp.MustCompile(`^([HM])(\d+(\.\d+)?)([A-Z]*)?$`)
	tokenRe  = regexp.MustCompile(`^([\d.]+-?)?([A-Z]+)(-?[\d.]+)?$`)
)

// BaseShiftFor exposes the catalog for display purposes.
func BaseShiftFor(code string) (BaseShift, bool) {
	b, ok := baseShifts[strings.ToUpper(code)]
	return b, ok
}

// IsNonWorking reports whether the token is one of the absence codes.
func IsNonWorking(token string) bool {
	_, ok := nonWorking[strings.ToUpper(strings.TrimSpace(token))]
	return ok
}

func directLabel(kind string) string {
	if kind == "H" {
		return "Học"
	}
	return "Họp"
}

// Parse parses a single shift token. It returns nil for anything the
// grammar does not recognize; the caller decides whether that token is a
// non-working marker or an unknown code.
func Parse(token string) *model.ParsedShift {
	code := strings.ToUpper(strings.TrimSpace(token))
	if code == "" {
		return nil
	}

	// Bare training/meeting markers carry no hours.
	if code == "H" || code == "M" {
		return &model.ParsedShift{Code: code, IsDirect: true, Label: directLabel(code)}
	}

	// Direct codes state their duration literally: H2 = 2h of training.
	// HC/MC prefixes are excluded so the HC base shift is not swallowed.
	if m := directRe.FindStringSubmatch(code); m != nil &&
		!strings.HasPrefix(code, "HC") && !strings.HasPrefix(code, "MC") {
		hours, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil
		}
		return &model.ParsedShift{
			Code:          code,
			End:           int(hours * 60),
			DurationHours: hours,
			IsDirect:      true,
			Label:         directLabel(m[1]) + " " + m[2] + "h",
		}
	}

	m := tokenRe.FindStringSubmatch(code)
	if m == nil {
		return nil
	}
	prefix, base, suffix := m[1], m[2], m[3]

	baseShift, ok := baseShifts[base]
	if !ok {
		return nil // only strict base codes, never guess
	}

	start := baseShift.Start
	end := baseShift.End

	// Prefix moves the start: "1HC" starts 1h earlier, "1-HC" 1h later.
	// Suffix moves the end: "HC1" ends 1h later, "HC-1" 1h earlier. The
	// dash placement is the schedulers' notation, reproduced exactly.
	if prefix != "" {
		v, err := strconv.ParseFloat(strings.TrimSuffix(prefix, "-"), 64)
		if err != nil {
			return nil
		}
		if strings.Contains(prefix, "-") {
			start += int(v * 60)
		} else {
			start -= int(v * 60)
		}
	}
	if suffix != "" {
		v, err := strconv.ParseFloat(strings.TrimPrefix(suffix, "-"), 64)
		if err != nil {
			return nil
		}
		if strings.Contains(suffix, "-") {
			end -= int(v * 60)
		} else {
			end += int(v * 60)
		}
	}

	duration := float64(end-start) / 60
	if duration < 0 {
		duration += 24 // shift crosses midnight
	}

	return &model.ParsedShift{
		Code:          code,
		Start:         start,
		End:           end,
		DurationHours: duration,
	}
}
