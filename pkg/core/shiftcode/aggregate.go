package shiftcode

import (
	"regexp"
	"strings"

	"github.com/hqvu/groundroster/pkg/core/model"
)

// Cell text is split on whitespace, commas, plus signs and newlines; a
// single day cell often packs several codes ("HC+H2", "S, OFF").
var separatorRe = regexp.MustCompile(`[\s,+\n]+`)

// SplitTokens splits a cell's text form into shift tokens.
func SplitTokens(s string) []string {
	parts := separatorRe.Split(s, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// AggregateDay folds one weekday's cell group (up to three cells) into a
// DayAggregate. Valid shifts accumulate hours; tokens the grammar rejects
// either mark the day off (non-working set) or land in Unknown. A day with
// at least one valid shift outranks off, which outranks unknown.
func AggregateDay(cells []model.CellValue) model.DayAggregate {
	var (
		display []string
		tokens  []string
	)
	for _, cell := range cells {
		if cell.IsBlank() {
			continue
		}
		s := cell.String()
		display = append(display, s)
		tokens = append(tokens, SplitTokens(s)...)
	}

	agg := model.DayAggregate{
		RawDisplay: strings.Join(display, " | "),
		RawCodes:   strings.Join(tokens, ", "),
	}

	for _, token := range tokens {
		if parsed := Parse(token); parsed != nil && (parsed.DurationHours > 0 || parsed.IsDirect) {
			parsed.Code = token
			agg.TotalHours += parsed.DurationHours
			agg.Shifts = append(agg.Shifts, *parsed)
		} else if IsNonWorking(token) {
			agg.IsOff = true
		} else {
			agg.Unknown = append(agg.Unknown, token)
		}
	}

	return agg
}
