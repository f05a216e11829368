package join

import (
	"strconv"
	"strings"
	"time"

	"github.com/kasuganosora/autojoin/pkg/api"
	"github.com/kasuganosora/autojoin/pkg/types"
)

// datetimeLayouts are tried in order when coercing a text column. The
// time-only layouts at the end exist so that "12:30"-style columns are
// recognized and then rejected as degenerate rather than treated as real
// dates.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

var timeOnlyLayouts = []string{
	"15:04:05",
	"15:04",
}

// normalize returns a copy of t with every column coerced to its narrowest
// semantic type: numeric first, then datetime, otherwise text. Columns
// that end up entirely null carry no join-key signal and are dropped.
func (s *session) normalize(t *types.Table) (*types.Table, error) {
	if len(t.Columns) <= 1 {
		return nil, api.NewSchemaError(t.Label, "table has only one column, nothing to join")
	}

	out := types.NewTable(t.Label)
	for _, col := range t.Columns {
		nc := coerceColumn(col)
		if nc.AllNull() {
			continue
		}
		if err := out.AddColumn(nc); err != nil {
			return nil, api.WrapError(err, api.KindData, "normalize")
		}
	}
	if len(out.Columns) == 0 {
		return nil, api.NewDataError(t.Label, "no usable columns after normalization")
	}

	if s.opts.Verbose {
		numeric, datetime, text := 0, 0, 0
		for _, c := range out.Columns {
			switch c.Type {
			case types.TypeNumeric:
				numeric++
			case types.TypeDatetime:
				datetime++
			default:
				text++
			}
		}
		s.log.Info("%s | table has %d numeric, %d datetime and %d text columns", t.Label, numeric, datetime, text)
	}
	return out, nil
}

// coerceColumn infers the semantic type of a column and converts its
// values. The policy is all-or-nothing: a single unparseable non-null
// value keeps the column at its current type.
func coerceColumn(c *types.Column) *types.Column {
	if nc, ok := coerceNumeric(c); ok {
		return nc
	}
	if nc, ok := coerceDatetime(c); ok {
		return nc
	}
	return c.Clone()
}

func coerceNumeric(c *types.Column) (*types.Column, bool) {
	values := make([]types.Value, len(c.Values))
	any := false
	for i, v := range c.Values {
		switch v.Kind {
		case types.KindNull:
			values[i] = types.Null()
		case types.KindNumber:
			values[i] = v
			any = true
		case types.KindText:
			f, ok := parseNumber(v.Str)
			if !ok {
				return nil, false
			}
			values[i] = types.Number(f)
			any = true
		default:
			return nil, false
		}
	}
	if !any {
		return nil, false
	}
	return types.NewColumn(c.Name, types.TypeNumeric, values), true
}

func coerceDatetime(c *types.Column) (*types.Column, bool) {
	values := make([]types.Value, len(c.Values))
	any := false
	allToday := true
	today := time.Now().Truncate(24 * time.Hour)
	for i, v := range c.Values {
		switch v.Kind {
		case types.KindNull:
			values[i] = types.Null()
		case types.KindDatetime:
			values[i] = v
			any = true
			if !sameDate(v.Time, today) {
				allToday = false
			}
		case types.KindText:
			ts, ok := parseDatetime(v.Str, today)
			if !ok {
				return nil, false
			}
			values[i] = types.Datetime(ts)
			any = true
			if !sameDate(ts, today) {
				allToday = false
			}
		default:
			return nil, false
		}
	}
	if !any {
		return nil, false
	}
	// Every parsed value collapsing to the current date means the parse
	// was degenerate (time-only or placeholder data), not real dates.
	if allToday {
		return nil, false
	}
	return types.NewColumn(c.Name, types.TypeDatetime, values), true
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// parseNumber accepts plain floats plus the comma-decimal convention
// ("1,5" for 1.5) seen in European exports.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func parseDatetime(s string, today time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range datetimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	for _, layout := range timeOnlyLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			// Anchor bare times on the current date, the same way the
			// degenerate-parse check expects them.
			y, m, d := today.Date()
			return time.Date(y, m, d, ts.Hour(), ts.Minute(), ts.Second(), 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
