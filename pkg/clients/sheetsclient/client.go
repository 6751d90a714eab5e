// Package sheetsclient materializes a Google Sheets spreadsheet into cell
// grids, for stations that keep the roster in Sheets instead of a local
// .xlsx export.
package sheetsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/hqvu/groundroster/internal/config"
	"github.com/hqvu/groundroster/pkg/core/model"
	"github.com/hqvu/groundroster/pkg/utils"
	"github.com/hqvu/groundroster/pkg/workbook"
)

// Client wraps the Google Sheets API for one spreadsheet. It implements
// workbook.GridSource.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewClient creates a new Sheets client using OAuth credentials and performs
// the OAuth flow if needed.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, spreadsheetID string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg, []string{utils.ScopeSheetsReadonly})
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service, spreadsheetID: spreadsheetID}, nil
}

// Service returns the underlying sheets service for direct API access
func (c *Client) Service() *sheets.Service {
	return c.service
}

// Grids fetches every sheet of the spreadsheet. Values are requested
// unformatted so time cells arrive as day fractions, the same shape the
// local .xlsx source produces.
func (c *Client) Grids(ctx context.Context) ([]workbook.NamedGrid, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	grids := make([]workbook.NamedGrid, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		title := sheet.Properties.Title

		resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, title).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get values for sheet %s: %w", title, err)
		}

		grid := make(model.Grid, len(resp.Values))
		for i, row := range resp.Values {
			cells := make(model.Row, len(row))
			for j, v := range row {
				cells[j] = toCell(v)
			}
			grid[i] = cells
		}
		grids = append(grids, workbook.NamedGrid{Name: title, Grid: grid})
	}

	return grids, nil
}

// toCell maps an API value to the cell variant the core inspects.
func toCell(v interface{}) model.CellValue {
	switch val := v.(type) {
	case nil:
		return model.Empty()
	case string:
		if val == "" {
			return model.Empty()
		}
		return model.Text(val)
	case float64:
		return model.Number(val)
	case bool:
		if val {
			return model.Text("TRUE")
		}
		return model.Text("FALSE")
	default:
		return model.Text(fmt.Sprintf("%v", val))
	}
}
