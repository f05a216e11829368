package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/autojoin/pkg/api"
	"github.com/kasuganosora/autojoin/pkg/types"
)

func testSession(t *testing.T, opts Options) *session {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = api.NewNoOpLogger()
	}
	s, err := newSession(opts)
	require.NoError(t, err)
	return s
}

func textTable(t *testing.T, label string, cols map[string][]string, order ...string) *types.Table {
	t.Helper()
	tbl := types.NewTable(label)
	for _, name := range order {
		require.NoError(t, tbl.AddColumn(types.NewTextColumn(name, cols[name])))
	}
	return tbl
}

func TestNormalizeCoercesNumeric(t *testing.T) {
	s := testSession(t, Options{})
	tbl := textTable(t, "t", map[string][]string{
		"id":    {"1", "2", "3"},
		"price": {"1.5", "2,5", ""},
	}, "id", "price")

	out, err := s.normalize(tbl)
	require.NoError(t, err)

	id := out.Column("id")
	require.NotNil(t, id)
	assert.Equal(t, types.TypeNumeric, id.Type)
	assert.Equal(t, types.Number(2), id.Values[1])

	price := out.Column("price")
	require.NotNil(t, price)
	assert.Equal(t, types.TypeNumeric, price.Type)
	assert.Equal(t, types.Number(2.5), price.Values[1], "comma decimal")
	assert.True(t, price.Values[2].IsNull())
}

func TestNormalizeCoercesDatetime(t *testing.T) {
	s := testSession(t, Options{})
	tbl := textTable(t, "t", map[string][]string{
		"date": {"2023-04-01", "2023/04/02", "02.04.2023"},
		"note": {"a", "b", "c"},
	}, "date", "note")

	out, err := s.normalize(tbl)
	require.NoError(t, err)

	date := out.Column("date")
	require.NotNil(t, date)
	assert.Equal(t, types.TypeDatetime, date.Type)
	assert.Equal(t, 2023, date.Values[0].Time.Year())
}

func TestNormalizeMixedStaysText(t *testing.T) {
	s := testSession(t, Options{})
	tbl := textTable(t, "t", map[string][]string{
		"mixed": {"1", "two", "3"},
		"other": {"x", "y", "z"},
	}, "mixed", "other")

	out, err := s.normalize(tbl)
	require.NoError(t, err)
	assert.Equal(t, types.TypeText, out.Column("mixed").Type)
}

func TestNormalizeRejectsTimeOnlyColumns(t *testing.T) {
	s := testSession(t, Options{})
	tbl := textTable(t, "t", map[string][]string{
		"depart": {"12:30", "08:15", "23:59"},
		"other":  {"x", "y", "z"},
	}, "depart", "other")

	out, err := s.normalize(tbl)
	require.NoError(t, err)
	// Bare times all anchor on today; a column of them carries no real
	// date information and must stay text.
	assert.Equal(t, types.TypeText, out.Column("depart").Type)
}

func TestNormalizeDropsAllNullColumns(t *testing.T) {
	s := testSession(t, Options{})
	tbl := textTable(t, "t", map[string][]string{
		"empty": {"", "", ""},
		"id":    {"1", "2", "3"},
		"name":  {"a", "b", "c"},
	}, "empty", "id", "name")

	out, err := s.normalize(tbl)
	require.NoError(t, err)
	assert.Nil(t, out.Column("empty"))
	assert.Equal(t, []string{"id", "name"}, out.ColumnNames())
}

func TestNormalizeSingleColumnFails(t *testing.T) {
	s := testSession(t, Options{})
	tbl := textTable(t, "narrow", map[string][]string{
		"only": {"1", "2"},
	}, "only")

	_, err := s.normalize(tbl)
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindSchema))
}

func TestNormalizeAllColumnsNullFails(t *testing.T) {
	s := testSession(t, Options{})
	tbl := textTable(t, "void", map[string][]string{
		"a": {"", ""},
		"b": {"", ""},
	}, "a", "b")

	_, err := s.normalize(tbl)
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindData))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 3.14 ", 3.14, true},
		{"1,5", 1.5, true},
		{"-7", -7, true},
		{"1,000.5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}
