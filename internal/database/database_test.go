package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMigratesAllTables(t *testing.T) {
	dsn := "file:database_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := Connect(dsn, DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "salas", "reservas", "chamados", "avaliacoes", "avaliacao_logs", "eventos"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
	require.True(t, db.Migrator().HasIndex("reservas", "idx_reservas_room_window"))

	// idempotent
	require.NoError(t, Migrate(db))
}
