package config_test

import (
	"testing"

	"skinledger/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "name", cfg.Run.GroupBy)
	assert.Equal(t, []string{"steam", "buff163", "skinport"}, cfg.Run.Markets)
	assert.Equal(t, "A", cfg.Run.Columns.Name)
	assert.Equal(t, "M", cfg.Run.Columns.Sold)
	assert.Equal(t, 60, cfg.Cache.TTLMinutes)
	assert.Equal(t, 5, cfg.Detail.MaxAttempts)
	assert.Equal(t, 500, cfg.Detail.CourtesyDelayMS)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "main", cfg.LedgerSheet)
	assert.False(t, cfg.ArchiveReports)
	assert.NoError(t, cfg.Run.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RUN_GROUP_BY", "instance")
	t.Setenv("RUN_MARKETS", "steam,csmoney")
	t.Setenv("CACHE_TTL_MINUTES", "15")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("LEDGER_SHEET", "2026")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "instance", cfg.Run.GroupBy)
	assert.Equal(t, []string{"steam", "csmoney"}, cfg.Run.Markets)
	assert.Equal(t, 15, cfg.Cache.TTLMinutes)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "2026", cfg.LedgerSheet)
}
