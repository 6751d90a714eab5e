package apiconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GROUNDROSTER_WORKBOOK_PATH", "/data/roster.xlsx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, 15, cfg.Server.WriteTimeout)
	assert.Equal(t, 60, cfg.Server.IdleTimeout)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/data/roster.xlsx", cfg.WorkbookPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GROUNDROSTER_WORKBOOK_PATH", "/data/roster.xlsx")
	t.Setenv("GROUNDROSTER_ENVIRONMENT", "production")
	t.Setenv("GROUNDROSTER_SERVER_ADDR", ":9000")
	t.Setenv("GROUNDROSTER_SERVER_READ_TIMEOUT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.ReadTimeout)
}

func TestLoad_MissingWorkbookPath(t *testing.T) {
	_, err := Load()
	assert.Error(t, err)
}
