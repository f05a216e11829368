package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/autojoin/pkg/types"
)

func sampleTable(t *testing.T) *types.Table {
	t.Helper()
	tbl := types.NewTable("flights")
	require.NoError(t, tbl.AddColumn(types.NewColumn("flight_id", types.TypeNumeric,
		[]types.Value{types.Number(1), types.Number(2)})))
	require.NoError(t, tbl.AddColumn(types.NewColumn("origin", types.TypeText,
		[]types.Value{types.Text("TXL"), types.Null()})))
	return tbl
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.sqlite")

	require.NoError(t, Save(ctx, sampleTable(t), path))

	loaded, err := Load(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"flight_id", "origin"}, loaded.ColumnNames())
	assert.Equal(t, 2, loaded.RowCount())
	assert.Equal(t, types.TypeNumeric, loaded.Column("flight_id").Type)
	assert.Equal(t, types.Number(1), loaded.Column("flight_id").Values[0])
	assert.Equal(t, types.Text("TXL"), loaded.Column("origin").Values[0])
	assert.True(t, loaded.Column("origin").Values[1].IsNull())
}

func TestSaveReplacesExistingTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.sqlite")

	require.NoError(t, Save(ctx, sampleTable(t), path))
	require.NoError(t, Save(ctx, sampleTable(t), path))

	loaded, err := Load(ctx, path, "flights")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.RowCount())
}

func TestLoadAmbiguousTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.sqlite")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "CREATE TABLE one (a TEXT); CREATE TABLE two (b TEXT)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Load(ctx, path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 tables")
}

func TestLoadEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.sqlite")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, db.Close())

	_, err = Load(ctx, path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tables")
}
