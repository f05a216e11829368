package types

// Column is a named, ordered sequence of values sharing a single semantic
// type. Values may be null; numeric and datetime columns only ever contain
// nulls or successfully coerced values.
type Column struct {
	Name   string
	Type   SemanticType
	Values []Value
}

// NewColumn creates a column of the given type
func NewColumn(name string, typ SemanticType, values []Value) *Column {
	return &Column{Name: name, Type: typ, Values: values}
}

// NewTextColumn creates a text column from raw strings, mapping empty
// strings to null
func NewTextColumn(name string, raw []string) *Column {
	values := make([]Value, len(raw))
	for i, s := range raw {
		if s == "" {
			values[i] = Null()
		} else {
			values[i] = Text(s)
		}
	}
	return &Column{Name: name, Type: TypeText, Values: values}
}

// Len returns the number of rows including nulls
func (c *Column) Len() int {
	return len(c.Values)
}

// NonNullCount returns the number of non-null values
func (c *Column) NonNullCount() int {
	n := 0
	for _, v := range c.Values {
		if !v.IsNull() {
			n++
		}
	}
	return n
}

// AllNull reports whether every value in the column is null
func (c *Column) AllNull() bool {
	return c.NonNullCount() == 0
}

// DistinctKeys returns the set of canonical keys of the non-null values
func (c *Column) DistinctKeys() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Values))
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		set[v.Key()] = struct{}{}
	}
	return set
}

// ModeLength returns the most frequent string length among non-null values,
// with whitespace removed before measuring. Ties resolve to the smaller
// length. Returns -1 for a column with no non-null values.
func (c *Column) ModeLength() int {
	counts := make(map[int]int)
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		counts[len(stripWhitespace(v.String()))]++
	}
	if len(counts) == 0 {
		return -1
	}
	best, bestCount := -1, 0
	for length, count := range counts {
		if count > bestCount || (count == bestCount && (best == -1 || length < best)) {
			best, bestCount = length, count
		}
	}
	return best
}

// Clone returns a copy of the column with a fresh value slice
func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Type: c.Type, Values: values}
}
