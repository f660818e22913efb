package integration

import (
	"testing"

	"github.com/mfgerp/backend/internal/infrastructure/migration"
	"github.com/mfgerp/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMigrations_DownAndUpAgain(t *testing.T) {
	tdb := NewTestDB(t)

	m, err := migration.New(tdb.SqlDB, migrations.FS, zaptest.NewLogger(t))
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.NotZero(t, version)

	require.NoError(t, m.Down())
	assert.False(t, tdb.DB.Migrator().HasTable("stock_ledger"))
	assert.False(t, tdb.DB.Migrator().HasTable("products"))

	require.NoError(t, m.Up())
	for _, table := range []string{"users", "products", "stock_ledger", "boms", "manufacturing_orders", "work_orders", "component_availability"} {
		assert.True(t, tdb.DB.Migrator().HasTable(table), table)
	}

	again, _, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, version, again)
}
