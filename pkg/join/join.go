package join

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kasuganosora/autojoin/pkg/api"
	"github.com/kasuganosora/autojoin/pkg/types"
)

// Result is the outcome of a successful multi-table join
type Result struct {
	// Table is the accumulated output table
	Table *types.Table
	// NewColumns is the symmetric difference between the first table's
	// original columns and the final output columns
	NewColumns []string
	// RowsRemoved is how many rows the run lost relative to the first
	// table's original row count; only meaningful for inner joins
	RowsRemoved int
}

// Join merges two or more tables without the caller specifying key
// columns. For every additional table the pipeline runs
// normalize -> score -> (augment) -> select keys -> merge, feeding each
// step's output in as the main table of the next. A single table is
// normalized and returned as-is. Any failure aborts the whole run with a
// typed error; there is no partial result.
func Join(ctx context.Context, tables []*types.Table, opts Options) (*Result, error) {
	if len(tables) < 1 {
		return nil, api.NewConfigError("required at least one input table")
	}
	s, err := newSession(opts)
	if err != nil {
		return nil, err
	}

	if s.opts.Verbose {
		s.log.Info("using run-unique join prefix: %s", s.prefix)
	}

	var main *types.Table
	var startColumns []string
	var startRows int

	for idx, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, api.WrapError(err, api.KindData, "join canceled")
		}
		if t.Label == "" {
			t.Label = fmt.Sprintf("df%d", idx)
		}

		if idx == 0 {
			startColumns = t.ColumnNames()
			startRows = t.RowCount()
			main, err = s.normalize(t)
			if err != nil {
				return nil, err
			}
			continue
		}

		other, err := s.normalize(t)
		if err != nil {
			return nil, err
		}

		main, err = s.mergeStep(ctx, main, other)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		Table:      main,
		NewColumns: symmetricDiff(startColumns, main.ColumnNames()),
	}
	if len(result.NewColumns) > 0 {
		s.log.Info("finished: added %d new columns to final table: %s",
			len(result.NewColumns), strings.Join(result.NewColumns, ", "))
	} else if len(tables) > 1 {
		s.log.Warn("finished, but added no new columns")
	}
	if s.opts.How == types.InnerJoin && len(tables) > 1 {
		result.RowsRemoved = startRows - main.RowCount()
		if startRows > 0 {
			pct := float64(result.RowsRemoved) / float64(startRows) * 100
			s.log.Warn("inner join removed %d rows (%.1f%%) from the final table", result.RowsRemoved, pct)
		}
	}
	return result, nil
}

// mergeStep runs the scoring, key selection and merge for a single
// (main, other) table pair, falling back to similarity augmentation when
// exact overlap yields no acceptable key.
func (s *session) mergeStep(ctx context.Context, main, other *types.Table) (*types.Table, error) {
	scores, err := s.scoreCandidates(ctx, main, other, false)
	if err != nil {
		return nil, err
	}
	plan, selectErr := s.selectKeys(scores, main.RowCount(), other.RowCount(), false, other.Label)

	if selectErr != nil && s.opts.Strategy != StrategyNone && api.IsKind(selectErr, api.KindSchema) {
		if err := s.augment(ctx, main, other); err != nil {
			return nil, err
		}
		scores, err = s.scoreCandidates(ctx, main, other, true)
		if err != nil {
			return nil, err
		}
		plan, selectErr = s.selectKeys(scores, main.RowCount(), other.RowCount(), true, other.Label)
	}
	if selectErr != nil {
		return nil, selectErr
	}

	if s.opts.Verbose {
		s.log.Info("%s | join by %s[%s] <-> %s[%s]",
			other.Label,
			main.Label, strings.Join(s.displayKeys(main.Label, plan.LeftKeys), ", "),
			other.Label, strings.Join(s.displayKeys(other.Label, plan.RightKeys), ", "))
	}

	beforeRows := main.RowCount()
	merged, err := mergeTables(main, other, plan, s.opts.How)
	if err != nil {
		return nil, err
	}

	// Generated helper columns never leak into the next step or the
	// final output.
	merged.DropColumns(s.isHelper)
	main.DropColumns(s.isHelper)
	other.DropColumns(s.isHelper)

	if s.opts.Verbose {
		s.log.Info("%s | merged %d rows into main table (%+d)",
			other.Label, merged.RowCount(), merged.RowCount()-beforeRows)
	}
	return merged, nil
}

// displayKeys strips the run prefix and table label from helper key names
// for readable log output.
func (s *session) displayKeys(label string, keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if s.isHelper(k) {
			out[i] = s.helperBase(label, k)
		} else {
			out[i] = k
		}
	}
	return out
}

// symmetricDiff returns the sorted symmetric difference of two name sets
func symmetricDiff(a, b []string) []string {
	inA := make(map[string]struct{}, len(a))
	for _, n := range a {
		inA[n] = struct{}{}
	}
	inB := make(map[string]struct{}, len(b))
	for _, n := range b {
		inB[n] = struct{}{}
	}
	var out []string
	for _, n := range a {
		if _, ok := inB[n]; !ok {
			out = append(out, n)
		}
	}
	for _, n := range b {
		if _, ok := inA[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
