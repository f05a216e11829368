package join

import (
	"strings"

	"github.com/kasuganosora/autojoin/pkg/api"
	"github.com/kasuganosora/autojoin/pkg/types"
)

// joinedSuffix disambiguates right-side columns whose names collide with
// a left-side column after the merge.
const joinedSuffix = "_joined"

// mergeTables executes one equi-join step: a hash index is built over the
// right table's key columns and probed with the left table's rows. Rows
// carrying a null in any key column cannot match and are dropped up front
// on both sides. Right-side key columns are consumed by the join and do
// not appear in the output; other right-side columns are suffixed on name
// collision.
func mergeTables(left, right *types.Table, plan types.JoinKeyPlan, how types.JoinType) (*types.Table, error) {
	leftKeyCols, err := keyColumns(left, plan.LeftKeys)
	if err != nil {
		return nil, err
	}
	rightKeyCols, err := keyColumns(right, plan.RightKeys)
	if err != nil {
		return nil, err
	}

	leftRows := nonNullKeyRows(leftKeyCols, left.RowCount())
	rightRows := nonNullKeyRows(rightKeyCols, right.RowCount())

	// Build side: map composite key -> right row indices
	index := make(map[string][]int, len(rightRows))
	for _, r := range rightRows {
		k := compositeKey(rightKeyCols, r)
		index[k] = append(index[k], r)
	}

	var leftIdx, rightIdx []int
	rightMatched := make([]bool, right.RowCount())
	for _, l := range leftRows {
		matches := index[compositeKey(leftKeyCols, l)]
		if len(matches) > 0 {
			for _, r := range matches {
				leftIdx = append(leftIdx, l)
				rightIdx = append(rightIdx, r)
				rightMatched[r] = true
			}
			continue
		}
		if how == types.LeftJoin || how == types.OuterJoin {
			leftIdx = append(leftIdx, l)
			rightIdx = append(rightIdx, -1)
		}
	}
	if how == types.OuterJoin {
		for _, r := range rightRows {
			if !rightMatched[r] {
				leftIdx = append(leftIdx, -1)
				rightIdx = append(rightIdx, r)
			}
		}
	}

	return buildMergeResult(left, right, plan, leftIdx, rightIdx)
}

func keyColumns(t *types.Table, names []string) ([]*types.Column, error) {
	cols := make([]*types.Column, len(names))
	for i, name := range names {
		c := t.Column(name)
		if c == nil {
			return nil, api.NewDataError(t.Label, "join key column %q not found", name)
		}
		cols[i] = c
	}
	return cols, nil
}

// nonNullKeyRows lists the row indices with no null in any key column
func nonNullKeyRows(keyCols []*types.Column, rowCount int) []int {
	rows := make([]int, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		ok := true
		for _, c := range keyCols {
			if c.Values[i].IsNull() {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, i)
		}
	}
	return rows
}

func compositeKey(cols []*types.Column, row int) string {
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(c.Values[row].Key())
	}
	return b.String()
}

// buildMergeResult gathers output columns from the matched row index
// pairs. Index -1 yields null (the unmatched side of left/outer joins).
func buildMergeResult(left, right *types.Table, plan types.JoinKeyPlan, leftIdx, rightIdx []int) (*types.Table, error) {
	out := types.NewTable(left.Label)

	rightKeySet := make(map[string]struct{}, len(plan.RightKeys))
	for _, k := range plan.RightKeys {
		rightKeySet[k] = struct{}{}
	}
	leftNames := make(map[string]struct{}, len(left.Columns))
	for _, c := range left.Columns {
		leftNames[c.Name] = struct{}{}
	}

	for _, c := range left.Columns {
		if err := out.AddColumn(gatherColumn(c, c.Name, leftIdx)); err != nil {
			return nil, api.WrapError(err, api.KindData, "merge")
		}
	}
	for _, c := range right.Columns {
		if _, isKey := rightKeySet[c.Name]; isKey {
			continue
		}
		name := c.Name
		if _, taken := leftNames[name]; taken {
			name += joinedSuffix
		}
		if err := out.AddColumn(gatherColumn(c, name, rightIdx)); err != nil {
			return nil, api.WrapError(err, api.KindData, "merge")
		}
	}
	return out, nil
}

func gatherColumn(src *types.Column, name string, indices []int) *types.Column {
	values := make([]types.Value, len(indices))
	for i, idx := range indices {
		if idx < 0 {
			values[i] = types.Null()
		} else {
			values[i] = src.Values[idx]
		}
	}
	return types.NewColumn(name, src.Type, values)
}
