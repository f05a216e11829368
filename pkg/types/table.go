package types

import "fmt"

// JoinType is the relational join mode used when merging two tables
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	OuterJoin
)

// String returns the join type name
func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case OuterJoin:
		return "outer"
	default:
		return "unknown"
	}
}

// ParseJoinType parses a join mode name
func ParseJoinType(s string) (JoinType, error) {
	switch s {
	case "inner":
		return InnerJoin, nil
	case "left":
		return LeftJoin, nil
	case "outer":
		return OuterJoin, nil
	default:
		return InnerJoin, fmt.Errorf("unknown join type: %q", s)
	}
}

// Table is an ordered collection of equal-length columns with an
// identifying label. The label disambiguates generated helper columns once
// several tables are combined.
type Table struct {
	Label   string
	Columns []*Column
}

// NewTable creates an empty table with the given label
func NewTable(label string) *Table {
	return &Table{Label: label}
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name, or nil
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddColumn appends a column. The column must match the table's row count
// unless the table is empty.
func (t *Table) AddColumn(c *Column) error {
	if t.Column(c.Name) != nil {
		return fmt.Errorf("table %s: duplicate column %q", t.Label, c.Name)
	}
	if len(t.Columns) > 0 && c.Len() != t.RowCount() {
		return fmt.Errorf("table %s: column %q has %d rows, want %d", t.Label, c.Name, c.Len(), t.RowCount())
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// DropColumns removes all columns for which drop returns true
func (t *Table) DropColumns(drop func(name string) bool) {
	kept := t.Columns[:0]
	for _, c := range t.Columns {
		if !drop(c.Name) {
			kept = append(kept, c)
		}
	}
	t.Columns = kept
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{Label: t.Label, Columns: make([]*Column, len(t.Columns))}
	for i, c := range t.Columns {
		out.Columns[i] = c.Clone()
	}
	return out
}

// Row materializes row i as a slice in column order
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// CandidateScore is one scored join-key candidate: a column pair that
// survived the compatibility pre-filters, with its value-overlap ratio and
// the estimated number of row values that would match.
type CandidateScore struct {
	LeftColumn   string
	RightColumn  string
	OverlapRatio float64
	MatchedCount int
}

// JoinKeyPlan is the resolved key set for one merge step: parallel lists of
// column names, unique within each side and equal in length.
type JoinKeyPlan struct {
	LeftKeys  []string
	RightKeys []string
}

// Len returns the number of key pairs
func (p JoinKeyPlan) Len() int {
	return len(p.LeftKeys)
}
