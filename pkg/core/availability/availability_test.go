package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hqvu/groundroster/pkg/core/model"
	"github.com/hqvu/groundroster/pkg/workbook"
)

type fakeRoster struct {
	staff     []string
	days      map[string]model.DayAggregate
	grid      model.Grid
	sheetName string
	hasSheet  bool
}

func (f *fakeRoster) ListStaff() []string { return f.staff }

func (f *fakeRoster) DayShift(name string, day model.Weekday) (model.DayAggregate, bool) {
	agg, ok := f.days[name]
	return agg, ok
}

func (f *fakeRoster) ResolveDaySheet(day model.Weekday) (model.Grid, string, bool) {
	if !f.hasSheet {
		return nil, "", false
	}
	return f.grid, f.sheetName, true
}

func shiftAgg(shifts ...model.ParsedShift) model.DayAggregate {
	var agg model.DayAggregate
	for _, s := range shifts {
		agg.Shifts = append(agg.Shifts, s)
		agg.TotalHours += s.DurationHours
	}
	return agg
}

func row(cells ...string) model.Row {
	r := make(model.Row, len(cells))
	for i, c := range cells {
		if c == "" {
			r[i] = model.Empty()
		} else {
			r[i] = model.Text(c)
		}
	}
	return r
}

func testRoster() *fakeRoster {
	hc := model.ParsedShift{Code: "HC", Start: 450, End: 930, DurationHours: 8}
	s := model.ParsedShift{Code: "S", Start: 360, End: 840, DurationHours: 8}
	x := model.ParsedShift{Code: "X", Start: 840, End: 1320, DurationHours: 8}

	return &fakeRoster{
		staff: []string{"Nguyễn Văn A", "Trần Thị B", "Lê C", "Phạm D"},
		days: map[string]model.DayAggregate{
			"Nguyễn Văn A": shiftAgg(hc),
			"Trần Thị B":   shiftAgg(x),
			"Lê C":         {IsOff: true, RawDisplay: "OFF"},
			"Phạm D":       shiftAgg(s),
		},
		grid: model.Grid{
			row("BẢNG PHÂN CÔNG PHỤC VỤ CHUYẾN BAY"),
			row("", "", "FLT", "ETD", "GATE", "LEAD"),
			row("", "", "VN200", "13:00", "7", "Nguyễn Văn A"),
		},
		sheetName: "MON 01.09",
		hasSheet:  true,
	}
}

func TestResolve_Partition(t *testing.T) {
	roster := testRoster()

	// 10:00-11:00: A is on HC with a VN200 departure at 13:00 (busy window
	// 09:00-13:00), D is on S with no flights, B's X shift misses the
	// window entirely and C is off.
	result, err := Resolve(context.Background(), roster, zap.NewNop(), DefaultOptions(), model.Monday, "10:00", "11:00")
	require.NoError(t, err)

	assert.Equal(t, "MON 01.09", result.SheetName)

	require.Len(t, result.Available, 1)
	assert.Equal(t, "Phạm D", result.Available[0].Name)
	assert.Equal(t, []string{"S (06:00-14:00)"}, result.Available[0].ShiftLabels)
	assert.Empty(t, result.Available[0].BusyFlights)

	require.Len(t, result.Busy, 1)
	assert.Equal(t, "Nguyễn Văn A", result.Busy[0].Name)
	require.Len(t, result.Busy[0].BusyFlights, 1)
	assert.Equal(t, "VN200", result.Busy[0].BusyFlights[0].Flight)
}

func TestResolve_ShiftOutsideWindowExcluded(t *testing.T) {
	roster := testRoster()

	result, err := Resolve(context.Background(), roster, zap.NewNop(), DefaultOptions(), model.Monday, "10:00", "11:00")
	require.NoError(t, err)

	for _, status := range append(result.Available, result.Busy...) {
		assert.NotEqual(t, "Trần Thị B", status.Name)
		assert.NotEqual(t, "Lê C", status.Name)
	}
}

func TestResolve_BusyWindowRule(t *testing.T) {
	roster := testRoster()

	// With no lead the VN200 departure at 13:00 no longer reaches back
	// into a morning window.
	opts := Options{BusyLeadMinutes: 0, BusyTrailMinutes: 0}
	result, err := Resolve(context.Background(), roster, zap.NewNop(), opts, model.Monday, "10:00", "11:00")
	require.NoError(t, err)

	assert.Len(t, result.Available, 2)
	assert.Empty(t, result.Busy)
}

func TestResolve_NightShiftOverlapsMidnightWindow(t *testing.T) {
	roster := testRoster()
	roster.days["Trần Thị B"] = shiftAgg(model.ParsedShift{Code: "A", Start: 1320, End: 360, DurationHours: 8})

	result, err := Resolve(context.Background(), roster, zap.NewNop(), DefaultOptions(), model.Monday, "00:00", "02:00")
	require.NoError(t, err)

	require.Len(t, result.Available, 1)
	assert.Equal(t, "Trần Thị B", result.Available[0].Name)
}

func TestResolve_MissingSheet(t *testing.T) {
	roster := testRoster()
	roster.hasSheet = false

	_, err := Resolve(context.Background(), roster, zap.NewNop(), DefaultOptions(), model.Monday, "10:00", "11:00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, workbook.ErrNoDaySheet))
}

func TestResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, testRoster(), zap.NewNop(), DefaultOptions(), model.Monday, "10:00", "11:00")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveAsync(t *testing.T) {
	out := ResolveAsync(context.Background(), testRoster(), zap.NewNop(), DefaultOptions(), model.Monday, "10:00", "11:00")

	select {
	case outcome := <-out:
		require.NoError(t, outcome.Err)
		require.NotNil(t, outcome.Result)
		assert.Len(t, outcome.Result.Busy, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("no outcome delivered")
	}
}
