package model

import (
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the value variants a spreadsheet cell can hold.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber // plain numeric or an Excel day-fraction time
	CellTime   // a date/time typed cell
)

// CellValue is a single spreadsheet cell as produced by a grid source.
// The core only inspects cells, it never constructs them outside the clients.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

// Row is one spreadsheet row. Rows may be ragged; accessors bounds-check.
type Row []CellValue

// Grid is one sheet's cells in row order.
type Grid []Row

// Text returns a text cell, Empty an empty one, and so on. They keep the
// clients from hand-assembling variants.
func Text(s string) CellValue { return CellValue{Kind: CellText, Text: s} }
func Number(f float64) CellValue {
	return CellValue{Kind: CellNumber, Number: f}
}
func Empty() CellValue { return CellValue{Kind: CellEmpty} }
func TimeCell(t time.Time) CellValue {
	return CellValue{Kind: CellTime, Time: t}
}

// IsBlank reports whether the cell carries no content. A numeric zero is
// blank: the sheets use 0 as filler, never as a value.
func (c CellValue) IsBlank() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	case CellNumber:
		return c.Number == 0
	default:
		return false
	}
}

// String is the cell's raw string form, the way the original sheets render
// it: numbers via strconv (no time formatting here, see timewin.FormatCell).
func (c CellValue) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellTime:
		return c.Time.Format("15:04")
	default:
		return ""
	}
}

// Cell returns the cell at column idx, or an empty cell when the row is
// shorter.
func (r Row) Cell(idx int) CellValue {
	if idx < 0 || idx >= len(r) {
		return CellValue{}
	}
	return r[idx]
}

// Weekday indexes the roster week: 0 = Monday .. 6 = Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayCodes = [...]string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// Vietnamese display names used by the weekly attendance table.
var weekdayNames = [...]string{"Thứ 2", "Thứ 3", "Thứ 4", "Thứ 5", "Thứ 6", "Thứ 7", "CN"}

// Code returns the three-letter sheet code (MON..SUN).
func (d Weekday) Code() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return weekdayCodes[d]
}

// Display returns the roster's display name for the weekday.
func (d Weekday) Display() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return weekdayNames[d]
}

// ParseWeekday accepts MON..SUN case-insensitively.
func ParseWeekday(code string) (Weekday, bool) {
	up := strings.ToUpper(strings.TrimSpace(code))
	for i, c := range weekdayCodes {
		if c == up {
			return Weekday(i), true
		}
	}
	return 0, false
}

// ParsedShift is one recognized shift token. Start/End are minutes from
// midnight and may be negative or exceed 1440; they are normalized only at
// overlap-test or display time.
type ParsedShift struct {
	Code          string
	Start         int
	End           int
	DurationHours float64
	// IsDirect marks training/meeting codes whose duration is stated in the
	// token rather than derived from a start/end window.
	IsDirect bool
	Label    string
}

// DayAggregate is one staff member's parsed day: the shift list, the summed
// hours, and the off/unknown classification flags. Rendering precedence is
// shifts, then off, then unknown, then nothing.
type DayAggregate struct {
	TotalHours float64
	Shifts     []ParsedShift
	RawDisplay string
	RawCodes   string
	IsOff      bool
	Unknown    []string
}

// HasShifts reports whether the day contributed at least one valid shift.
func (d DayAggregate) HasShifts() bool { return len(d.Shifts) > 0 }

// SectionKind names the sub-regions of a daily flight sheet. Each section
// has its own header row and merged-cell carry-forward scope.
type SectionKind string

const (
	SectionServing SectionKind = "PHỤC VỤ CHUYẾN BAY"
	SectionCargo   SectionKind = "CARE CARGO/CHARTER"
	SectionEdit    SectionKind = "EDIT CHUYẾN BAY"
)

// FlightAssignment is one staff member's role on one flight row of a daily
// sheet.
type FlightAssignment struct {
	Flight   string
	ETD      CellValue
	Position string
	Gate     string
	Section  SectionKind
}

// WeeklyAttendance is the per-staff weekly roll-up over the QT sheet.
type WeeklyAttendance struct {
	TotalHours float64
	ShiftCount int
	Days       [7]DayAggregate
}
