// Package workbook owns the loaded spreadsheet: per-sheet grids, the
// attendance/daily classification, and the query facade the front ends call.
//
// A Store is written once by Load and read-only afterwards; reloading is
// clear-then-rebuild. Callers must not query mid-load — the loaded flag
// gates that in the outer layer, there is no locking here.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hqvu/groundroster/pkg/core/attendance"
	"github.com/hqvu/groundroster/pkg/core/flights"
	"github.com/hqvu/groundroster/pkg/core/model"
)

var (
	// ErrNotLoaded is returned for queries before any workbook is loaded.
	ErrNotLoaded = errors.New("no workbook loaded")
	// ErrNoDaySheet is returned when no sheet name matches the weekday code.
	ErrNoDaySheet = errors.New("no schedule sheet for day")
)

// NamedGrid pairs a sheet name with its materialized cell grid.
type NamedGrid struct {
	Name string
	Grid model.Grid
}

// GridSource produces the sheets of one workbook. The excel and sheets
// clients both implement it.
type GridSource interface {
	Grids(ctx context.Context) ([]NamedGrid, error)
}

// IsAttendanceSheet classifies a sheet name: attendance when the upper-cased
// name mentions QT or the timekeeping phrase, daily flight sheet otherwise.
func IsAttendanceSheet(name string) bool {
	up := strings.ToUpper(name)
	return strings.Contains(up, "QT") || strings.Contains(up, "CHẤM CÔNG")
}

// Store holds one loaded workbook and answers all roster queries.
type Store struct {
	logger *zap.Logger
	layout attendance.Layout

	sheets         []NamedGrid
	byName         map[string]model.Grid
	attendanceName string
	index          *attendance.Index
	loaded         bool
}

// NewStore returns an empty store. Queries fail with ErrNotLoaded until
// Load succeeds.
func NewStore(layout attendance.Layout, logger *zap.Logger) *Store {
	return &Store{logger: logger, layout: layout}
}

// Load replaces the store's contents with the source's sheets. The
// attendance sheet is auto-picked preferring a name containing
// "CHẤM CÔNG QT", then any name classifying as attendance; a workbook
// without one still loads, only attendance queries come back empty.
func (s *Store) Load(ctx context.Context, src GridSource) error {
	grids, err := src.Grids(ctx)
	if err != nil {
		return fmt.Errorf("failed to load workbook: %w", err)
	}

	s.sheets = grids
	s.byName = make(map[string]model.Grid, len(grids))
	s.attendanceName = ""
	s.index = nil
	s.loaded = false

	for _, g := range grids {
		s.byName[g.Name] = g.Grid
		if s.attendanceName == "" && strings.Contains(strings.ToUpper(g.Name), "CHẤM CÔNG QT") {
			s.attendanceName = g.Name
		}
	}
	if s.attendanceName == "" {
		for _, g := range grids {
			if IsAttendanceSheet(g.Name) {
				s.attendanceName = g.Name
				break
			}
		}
	}

	if s.attendanceName != "" {
		s.index = attendance.BuildIndex(s.byName[s.attendanceName], s.layout, s.logger)
		s.logger.Info("Attendance sheet indexed",
			zap.String("sheet", s.attendanceName),
			zap.Int("staff", len(s.index.Names())))
	} else {
		s.logger.Warn("Workbook has no attendance sheet", zap.Int("sheets", len(grids)))
	}

	s.loaded = true
	s.logger.Info("Workbook loaded", zap.Int("sheets", len(grids)))
	return nil
}

// Loaded reports whether a workbook has been loaded.
func (s *Store) Loaded() bool { return s.loaded }

// SheetNames returns all sheet names in workbook order.
func (s *Store) SheetNames() []string {
	names := make([]string, len(s.sheets))
	for i, g := range s.sheets {
		names[i] = g.Name
	}
	return names
}

// AttendanceSheetName returns the picked attendance sheet name, or "".
func (s *Store) AttendanceSheetName() string { return s.attendanceName }

// Sheet returns a grid by exact sheet name.
func (s *Store) Sheet(name string) (model.Grid, bool) {
	g, ok := s.byName[name]
	return g, ok
}

// ResolveDaySheet finds the daily sheet for a weekday by case-insensitive
// substring match of the day code against sheet names.
func (s *Store) ResolveDaySheet(day model.Weekday) (model.Grid, string, bool) {
	code := day.Code()
	if code == "" {
		return nil, "", false
	}
	for _, g := range s.sheets {
		if strings.Contains(strings.ToUpper(g.Name), code) {
			return g.Grid, g.Name, true
		}
	}
	return nil, "", false
}

// ListStaff returns the roster names in attendance-sheet order.
func (s *Store) ListStaff() []string {
	if s.index == nil {
		return nil
	}
	return s.index.Names()
}

// WeeklyAttendance returns a staff member's weekly totals. Missing staff
// yields (zero, false), never an error.
func (s *Store) WeeklyAttendance(name string) (model.WeeklyAttendance, bool) {
	if s.index == nil {
		return model.WeeklyAttendance{}, false
	}
	return s.index.WeeklyAttendance(name)
}

// DayShift returns one staff member's aggregated shifts for a weekday.
func (s *Store) DayShift(name string, day model.Weekday) (model.DayAggregate, bool) {
	if s.index == nil {
		return model.DayAggregate{}, false
	}
	return s.index.DayShift(name, day)
}

// FlightAssignments returns the staff member's assignments on the weekday's
// daily sheet. The sheet name is returned for display.
func (s *Store) FlightAssignments(name string, day model.Weekday) ([]model.FlightAssignment, string, error) {
	if !s.loaded {
		return nil, "", ErrNotLoaded
	}
	grid, sheetName, ok := s.ResolveDaySheet(day)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNoDaySheet, day.Code())
	}
	return flights.ScanAssignments(grid, name, s.logger), sheetName, nil
}

// DaySheetStaff lists the names appearing on a weekday's daily sheet.
func (s *Store) DaySheetStaff(day model.Weekday) ([]string, string, error) {
	if !s.loaded {
		return nil, "", ErrNotLoaded
	}
	grid, sheetName, ok := s.ResolveDaySheet(day)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNoDaySheet, day.Code())
	}
	return flights.CollectStaffNames(grid), sheetName, nil
}
