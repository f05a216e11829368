package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/autojoin/pkg/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	tbl := types.NewTable("flights")
	require.NoError(t, tbl.AddColumn(types.NewColumn("flight_id", types.TypeNumeric,
		[]types.Value{types.Number(1), types.Number(2)})))
	require.NoError(t, tbl.AddColumn(types.NewColumn("origin", types.TypeText,
		[]types.Value{types.Text("TXL"), types.Null()})))

	path := filepath.Join(t.TempDir(), "flights.xlsx")
	require.NoError(t, Save(tbl, path))

	loaded, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "flights", loaded.Label)
	assert.Equal(t, []string{"flight_id", "origin"}, loaded.ColumnNames())
	assert.Equal(t, 2, loaded.RowCount())
	// Cells come back as text; type coercion happens later in the
	// pipeline.
	assert.Equal(t, types.Text("1"), loaded.Column("flight_id").Values[0])
	assert.True(t, loaded.Column("origin").Values[1].IsNull())
}

func TestLoadNamedSheet(t *testing.T) {
	tbl := types.NewTable("bags")
	require.NoError(t, tbl.AddColumn(types.NewColumn("id", types.TypeNumeric,
		[]types.Value{types.Number(7)})))

	path := filepath.Join(t.TempDir(), "bags.xlsx")
	require.NoError(t, Save(tbl, path))

	_, err := Load(path, "bags")
	require.NoError(t, err)

	_, err = Load(path, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet not found")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}
