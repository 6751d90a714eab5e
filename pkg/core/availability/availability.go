// Package availability answers the window query: which staff are free, and
// which are tied up by a flight, during a time window on a given weekday.
package availability

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hqvu/groundroster/pkg/core/flights"
	"github.com/hqvu/groundroster/pkg/core/model"
	"github.com/hqvu/groundroster/pkg/core/timewin"
	"github.com/hqvu/groundroster/pkg/workbook"
)

// Roster is the slice of the workbook store the resolver needs.
type Roster interface {
	ListStaff() []string
	DayShift(name string, day model.Weekday) (model.DayAggregate, bool)
	ResolveDaySheet(day model.Weekday) (model.Grid, string, bool)
}

// Options carries the busy-window business rule. A flight keeps its crew
// busy from ETD-Lead until ETD+Trail; the roster team currently works with
// a four-hour lead and no trail.
type Options struct {
	BusyLeadMinutes  int
	BusyTrailMinutes int
}

// DefaultOptions is the production busy-window rule.
func DefaultOptions() Options {
	return Options{BusyLeadMinutes: 240, BusyTrailMinutes: 0}
}

// StaffStatus is one staff member's entry in the partition.
type StaffStatus struct {
	Name        string
	ShiftLabels []string
	BusyFlights []model.FlightAssignment
}

// Result partitions every staff member whose shift overlaps the query
// window into exactly one of Available or Busy. Staff who are off, have no
// shift, or whose shift misses the window appear in neither.
type Result struct {
	Day       model.Weekday
	Start     string
	End       string
	SheetName string
	Available []StaffStatus
	Busy      []StaffStatus
}

// Outcome is what ResolveAsync delivers once the scan finishes.
type Outcome struct {
	Result *Result
	Err    error
}

// Resolve runs the availability search synchronously. The whole daily sheet
// must exist up front; its absence aborts only this query.
func Resolve(ctx context.Context, roster Roster, logger *zap.Logger, opts Options, day model.Weekday, start, end string) (*Result, error) {
	searchID := uuid.New().String()
	log := logger.With(zap.String("search_id", searchID))

	grid, sheetName, ok := roster.ResolveDaySheet(day)
	if !ok {
		return nil, fmt.Errorf("%w: %s", workbook.ErrNoDaySheet, day.Code())
	}

	startMin := timewin.ToMinutes(start)
	endMin := timewin.ToMinutes(end)

	log.Info("Searching availability",
		zap.String("day", day.Code()),
		zap.String("sheet", sheetName),
		zap.String("window", start+"-"+end))

	result := &Result{Day: day, Start: start, End: end, SheetName: sheetName}

	for _, name := range roster.ListStaff() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		agg, ok := roster.DayShift(name, day)
		if !ok || agg.IsOff || !agg.HasShifts() {
			continue
		}

		onShift := false
		labels := make([]string, 0, len(agg.Shifts))
		for _, s := range agg.Shifts {
			labels = append(labels, fmt.Sprintf("%s (%s-%s)", s.Code, timewin.Clock(s.Start), timewin.Clock(s.End)))
			if timewin.Overlap(s.Start, s.End, startMin, endMin) {
				onShift = true
			}
		}
		if !onShift {
			continue // not scheduled to work then, neither free nor busy
		}

		var conflicts []model.FlightAssignment
		for _, f := range flights.ScanAssignments(grid, name, log) {
			etd, usable := timewin.CellMinutes(f.ETD)
			if !usable {
				continue
			}
			busyStart := etd - opts.BusyLeadMinutes
			busyEnd := etd + opts.BusyTrailMinutes
			if timewin.Overlap(busyStart, busyEnd, startMin, endMin) {
				conflicts = append(conflicts, f)
			}
		}

		status := StaffStatus{Name: name, ShiftLabels: labels, BusyFlights: conflicts}
		if len(conflicts) == 0 {
			result.Available = append(result.Available, status)
		} else {
			result.Busy = append(result.Busy, status)
		}
	}

	log.Info("Availability search finished",
		zap.Int("available", len(result.Available)),
		zap.Int("busy", len(result.Busy)))

	return result, nil
}

// ResolveAsync runs Resolve off the caller's stack and delivers the outcome
// on the returned channel. There is no parallelism inside a search; this
// only decouples a UI from the synchronous pass.
func ResolveAsync(ctx context.Context, roster Roster, logger *zap.Logger, opts Options, day model.Weekday, start, end string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		res, err := Resolve(ctx, roster, logger, opts, day, start, end)
		out <- Outcome{Result: res, Err: err}
		close(out)
	}()
	return out
}
