// Package attendance indexes the fixed-layout "Chấm công QT" sheet: who is
// on the roster and which shift codes they hold per weekday.
package attendance

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hqvu/groundroster/pkg/core/model"
	"github.com/hqvu/groundroster/pkg/core/shiftcode"
)

// Layout describes where the QT sheet keeps its data. The real sheets are
// fixed-shape; the knobs exist so a reformatted export is a config change.
type Layout struct {
	HeaderRow     int // 0-based row of the weekday header
	NameColumn    int // column holding staff names
	DayBaseColumn int // first column of Monday's block
	DayColumnSpan int // columns per weekday block
}

// DefaultLayout matches the production QT sheets: header on row 3, names in
// column B, weekday blocks of three columns starting at column C.
func DefaultLayout() Layout {
	return Layout{HeaderRow: 2, NameColumn: 1, DayBaseColumn: 2, DayColumnSpan: 3}
}

// Index is the staff-name to roster-row mapping for one QT sheet.
type Index struct {
	layout Layout
	names  []string
	rows   map[string]model.Row
}

// BuildIndex scans the QT grid below the header row and collects every
// non-empty name in encounter order. Rows whose name cell contains "ngày"
// are date-header artifacts and are skipped. Duplicate names keep their
// first position in the listing but the later row wins, matching how the
// sheets are actually maintained (a re-entered row supersedes the old one).
func BuildIndex(grid model.Grid, layout Layout, logger *zap.Logger) *Index {
	idx := &Index{
		layout: layout,
		rows:   make(map[string]model.Row),
	}

	for i := layout.HeaderRow + 1; i < len(grid); i++ {
		row := grid[i]
		raw := row.Cell(layout.NameColumn)
		if raw.Kind != model.CellText {
			continue
		}
		name := strings.TrimSpace(raw.Text)
		if name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), "ngày") {
			continue
		}
		if _, seen := idx.rows[name]; !seen {
			idx.names = append(idx.names, name)
		}
		idx.rows[name] = row
	}

	logger.Debug("Indexed attendance sheet",
		zap.Int("rows", len(grid)),
		zap.Int("staff", len(idx.names)))

	return idx
}

// Names returns the roster names in encounter order.
func (idx *Index) Names() []string {
	out := make([]string, len(idx.names))
	copy(out, idx.names)
	return out
}

// Has reports whether the name is on the roster.
func (idx *Index) Has(name string) bool {
	_, ok := idx.rows[name]
	return ok
}

// DayShift aggregates one staff member's cell group for the given weekday.
// The bool is false when the name is not on the roster.
func (idx *Index) DayShift(name string, day model.Weekday) (model.DayAggregate, bool) {
	row, ok := idx.rows[name]
	if !ok || day < model.Monday || day > model.Sunday {
		return model.DayAggregate{}, false
	}

	base := idx.layout.DayBaseColumn + int(day)*idx.layout.DayColumnSpan
	cells := make([]model.CellValue, 0, idx.layout.DayColumnSpan)
	for offset := 0; offset < idx.layout.DayColumnSpan; offset++ {
		cells = append(cells, row.Cell(base+offset))
	}

	return shiftcode.AggregateDay(cells), true
}

// WeeklyAttendance rolls up all seven weekdays for one staff member. Hours
// come from every valid shift; the shift count excludes direct zero-hour
// markers (a bare "H" is attendance, not a shift).
func (idx *Index) WeeklyAttendance(name string) (model.WeeklyAttendance, bool) {
	if !idx.Has(name) {
		return model.WeeklyAttendance{}, false
	}

	var week model.WeeklyAttendance
	for day := model.Monday; day <= model.Sunday; day++ {
		agg, _ := idx.DayShift(name, day)
		week.Days[day] = agg
		if !agg.HasShifts() {
			continue
		}
		week.TotalHours += agg.TotalHours
		for _, s := range agg.Shifts {
			if s.DurationHours > 0 {
				week.ShiftCount++
			}
		}
	}

	return week, true
}
