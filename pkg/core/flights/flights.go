// Package flights scans the loosely-structured daily assignment sheets.
// Each sheet holds up to three sections (serving flights, cargo/charter,
// flight edit) with their own sub-headers, and uses merged cells for flight
// numbers and departure times spanning several role rows, so the scan
// carries the last seen flight/ETD forward within a section.
package flights

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hqvu/groundroster/pkg/core/model"
	"github.com/hqvu/groundroster/pkg/utils/vntext"
)

const (
	defaultFlightCol = 12 // column M
	defaultEtdCol    = 13 // column N
	etdScanLimit     = 15 // how far the ETD fallback scan looks
	headerScanLimit  = 20 // rows searched for a header before assuming row 0
)

var (
	flightColRe = regexp.MustCompile(`(?i)flight|số hiệu|sh|flt`)
	etdColRe    = regexp.MustCompile(`(?i)etd|giờ|time|bay`)
	gateColRe   = regexp.MustCompile(`(?i)gate|cửa`)
	clockish    = regexp.MustCompile(`\d{1,2}:\d{2}`)
)

// scanState is the carry-forward context within one section. Section
// switches reset all of it: a merged flight cell never bleeds across
// section boundaries.
type scanState struct {
	section    model.SectionKind
	headerRow  model.Row
	hasHeader  bool
	flightCol  int
	etdCol     int
	gateCol    int
	lastFlight string
	lastEtd    model.CellValue
}

func (s *scanState) enterSection(kind model.SectionKind) {
	s.section = kind
	s.headerRow = nil
	s.hasHeader = false
	s.lastFlight = ""
	s.lastEtd = model.CellValue{}
}

func (s *scanState) setHeader(row model.Row) {
	s.headerRow = row
	s.hasHeader = true

	s.flightCol = findColumn(row, flightColRe, -1)
	if s.flightCol == -1 {
		s.flightCol = defaultFlightCol
	}
	s.etdCol = findColumn(row, etdColRe, s.flightCol)
	if s.etdCol == -1 {
		s.etdCol = defaultEtdCol
	}
	s.gateCol = findColumn(row, gateColRe, -1)
}

// findColumn returns the first column whose text matches re, skipping the
// given column index (the ETD pattern would otherwise re-match a "SH/giờ"
// flight header).
func findColumn(row model.Row, re *regexp.Regexp, skip int) int {
	for i, cell := range row {
		if i == skip || cell.IsBlank() {
			continue
		}
		if re.MatchString(cell.String()) {
			return i
		}
	}
	return -1
}

func rowText(row model.Row) string {
	parts := make([]string, len(row))
	for i, cell := range row {
		parts[i] = cell.String()
	}
	return strings.ToUpper(strings.Join(parts, " "))
}

// usable reports whether a carried cell holds a real value (not blank, not
// the "-" placeholder the sheets use).
func usable(cell model.CellValue) bool {
	if cell.IsBlank() {
		return false
	}
	return strings.TrimSpace(cell.String()) != "-"
}

// nameMatcher matches a folded staff name against folded cell text, either
// exactly or on word boundaries, so "ANH" does not match "THANH" but does
// match "Anh 10 / SUP".
type nameMatcher struct {
	target string
	re     *regexp.Regexp
}

func newNameMatcher(staffName string) nameMatcher {
	target := vntext.FoldLower(staffName)
	return nameMatcher{
		target: target,
		re:     regexp.MustCompile(`(?i)(^|\s|[^a-zA-Z0-9])` + regexp.QuoteMeta(target) + `($|\s|[^a-zA-Z0-9])`),
	}
}

func (m nameMatcher) matches(cellText string) bool {
	folded := vntext.FoldLower(cellText)
	return folded == m.target || m.re.MatchString(folded)
}

// ScanAssignments walks a daily sheet top to bottom and returns every
// flight assignment for the staff member, in sheet order, de-duplicated by
// (section, flight, ETD). One row may emit several assignments when the
// person holds multiple roles on it.
func ScanAssignments(grid model.Grid, staffName string, logger *zap.Logger) []model.FlightAssignment {
	if len(grid) == 0 || strings.TrimSpace(staffName) == "" {
		return nil
	}

	matcher := newNameMatcher(staffName)
	state := &scanState{}
	state.enterSection(model.SectionServing)

	var found []model.FlightAssignment

	for _, row := range grid {
		if len(row) == 0 {
			continue
		}
		text := rowText(row)

		switch {
		case strings.Contains(text, "BẢNG PHÂN CÔNG CA TRỰC CARGO"),
			strings.Contains(text, "CARE CARGO"),
			strings.Contains(text, "CHARTER"):
			state.enterSection(model.SectionCargo)
			continue
		case strings.Contains(text, "BẢNG PHÂN CÔNG EDIT CHUYẾN BAY"):
			state.enterSection(model.SectionEdit)
			continue
		case strings.Contains(text, "BẢNG PHÂN CÔNG PHỤC VỤ CHUYẾN BAY"):
			state.enterSection(model.SectionServing)
			continue
		}

		if strings.Contains(text, "FLT") || strings.Contains(text, "ETD") || strings.Contains(text, "SỐ HIỆU") {
			state.setHeader(row)
			continue
		}

		if !state.hasHeader {
			continue
		}

		// Merged flight/ETD cells only appear on their first row; carry
		// the last seen values down through the rest of the block.
		if cell := row.Cell(state.flightCol); usable(cell) {
			state.lastFlight = cell.String()
		}
		etd := row.Cell(state.etdCol)
		if !usable(etd) {
			etd = scanForTime(row, state.flightCol)
		}
		if usable(etd) {
			state.lastEtd = etd
		}

		// Staff assignments never live in the first two columns.
		for j := 2; j < len(row); j++ {
			cell := row[j]
			if cell.IsBlank() || !matcher.matches(cell.String()) {
				continue
			}

			position := "Assigned"
			if p := state.headerRow.Cell(j); !p.IsBlank() {
				position = p.String()
			}
			gate := ""
			if state.gateCol != -1 {
				gate = row.Cell(state.gateCol).String()
			}

			flight := state.lastFlight
			if flight == "" {
				if state.section != model.SectionServing {
					flight = string(state.section)
				} else {
					flight = "-"
				}
			}
			etdVal := state.lastEtd
			if !usable(etdVal) {
				etdVal = model.Text("-")
			}

			found = append(found, model.FlightAssignment{
				Flight:   flight,
				ETD:      etdVal,
				Position: position,
				Gate:     gate,
				Section:  state.section,
			})
			// No break: one row can hold multiple roles for one person.
		}
	}

	deduped := dedupe(found)
	logger.Debug("Scanned daily sheet",
		zap.String("staff", staffName),
		zap.Int("matches", len(found)),
		zap.Int("assignments", len(deduped)))
	return deduped
}

// scanForTime is the ETD fallback: some sections keep the time in an
// unlabeled column, so look across the first few cells for anything
// time-shaped, skipping the flight column itself.
func scanForTime(row model.Row, flightCol int) model.CellValue {
	limit := min(len(row), etdScanLimit)
	for k := 0; k < limit; k++ {
		if k == flightCol {
			continue
		}
		cell := row[k]
		if cell.IsBlank() {
			continue
		}
		switch cell.Kind {
		case model.CellNumber, model.CellTime:
			return cell
		case model.CellText:
			if clockish.MatchString(cell.Text) {
				return cell
			}
		}
	}
	return model.CellValue{}
}

// dedupe drops assignments repeating an earlier (section, flight, ETD)
// triple, preserving sheet order. Merged-cell carry-forward makes each role
// row of a flight emit the same triple; only the first survives.
func dedupe(in []model.FlightAssignment) []model.FlightAssignment {
	seen := make(map[string]struct{}, len(in))
	out := make([]model.FlightAssignment, 0, len(in))
	for _, f := range in {
		key := string(f.Section) + "|" + f.Flight + "|" + f.ETD.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

// CollectStaffNames gathers the distinct names appearing on a daily sheet:
// string cells longer than two characters that are not known keywords.
// Used to offer a pick-list for sheets that have no QT roster behind them.
func CollectStaffNames(grid model.Grid) []string {
	headerIdx := 0
	for i := 0; i < min(len(grid), headerScanLimit); i++ {
		text := strings.ToLower(rowText(grid[i]))
		if strings.Contains(text, "flight") || strings.Contains(text, "số hiệu") ||
			strings.Contains(text, "gate") || strings.Contains(text, "etd") {
			headerIdx = i
			break
		}
	}

	set := make(map[string]struct{})
	for i := headerIdx + 1; i < len(grid); i++ {
		for _, cell := range grid[i] {
			if cell.Kind != model.CellText {
				continue
			}
			if len([]rune(cell.Text)) <= 2 {
				continue
			}
			switch strings.ToUpper(cell.Text) {
			case "HC", "OFF", "GATE":
				continue
			}
			set[strings.TrimSpace(cell.Text)] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
