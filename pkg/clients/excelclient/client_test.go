package excelclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqvu/groundroster/pkg/core/model"
)

func TestToCell(t *testing.T) {
	assert.Equal(t, model.Empty(), toCell(""))
	assert.Equal(t, model.Empty(), toCell("   "))

	assert.Equal(t, model.Text("HC"), toCell("HC"))
	assert.Equal(t, model.Text("Nguyễn Văn A"), toCell("Nguyễn Văn A"))
	assert.Equal(t, model.Text("10:30"), toCell("10:30"))

	// Raw mode hands serial times over as day fractions.
	assert.Equal(t, model.Number(0.3125), toCell("0.3125"))
	assert.Equal(t, model.Number(45), toCell("45"))
	assert.Equal(t, model.Number(1.5), toCell(" 1.5 "))
}

func TestGrids_MissingFile(t *testing.T) {
	client := NewClient("/nonexistent/roster.xlsx")

	_, err := client.Grids(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}
