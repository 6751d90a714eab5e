// Package excelclient materializes a local .xlsx workbook into cell grids.
package excelclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hqvu/groundroster/pkg/core/model"
	"github.com/hqvu/groundroster/pkg/workbook"
)

// Client reads one workbook file. It implements workbook.GridSource.
type Client struct {
	path string
}

// NewClient creates a client for the given .xlsx/.xlsm path. The file is
// opened on each Grids call, not held open.
func NewClient(path string) *Client {
	return &Client{path: path}
}

// Grids reads every sheet of the workbook in sheet order. Cells are read
// raw, so time-typed cells arrive as Excel day fractions — the same shape
// the Sheets source produces.
func (c *Client) Grids(ctx context.Context) ([]workbook.NamedGrid, error) {
	f, err := excelize.OpenFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", c.path, err)
	}
	defer f.Close()

	sheetNames := f.GetSheetList()
	grids := make([]workbook.NamedGrid, 0, len(sheetNames))

	for _, name := range sheetNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}

		grid := make(model.Grid, len(rows))
		for i, row := range rows {
			cells := make(model.Row, len(row))
			for j, raw := range row {
				cells[j] = toCell(raw)
			}
			grid[i] = cells
		}
		grids = append(grids, workbook.NamedGrid{Name: name, Grid: grid})
	}

	return grids, nil
}

// toCell maps a raw cell string to the variant the core inspects. Raw mode
// renders numeric cells (including serial times) as plain numbers, so a
// parseable float is a number cell; everything else non-empty is text.
func toCell(raw string) model.CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.Empty()
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return model.Number(n)
	}
	return model.Text(raw)
}
