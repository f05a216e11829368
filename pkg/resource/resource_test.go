package resource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/autojoin/pkg/types"
)

func TestLoadDispatchesByExtension(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,name\n1,a\n"), 0644))

	tbl, err := Load(ctx, csvPath)
	require.NoError(t, err)
	assert.Equal(t, "data", tbl.Label)
	assert.Equal(t, []string{"id", "name"}, tbl.ColumnNames())

	_, err = Load(ctx, filepath.Join(dir, "data.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

func TestSaveDispatchesByExtension(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tbl := types.NewTable("out")
	require.NoError(t, tbl.AddColumn(types.NewColumn("id", types.TypeNumeric,
		[]types.Value{types.Number(1)})))

	out := filepath.Join(dir, "out.csv")
	require.NoError(t, Save(ctx, tbl, out))
	_, err := os.Stat(out)
	assert.NoError(t, err)

	err = Save(ctx, tbl, filepath.Join(dir, "out.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "flights", Label("/data/flights.csv"))
	assert.Equal(t, "bags", Label("bags.parquet"))
	assert.Equal(t, "noext", Label("noext"))
}
