package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SemanticType is the inferred type of a column, decided once during
// normalization and held invariant afterwards.
type SemanticType int

const (
	TypeText SemanticType = iota
	TypeNumeric
	TypeDatetime
)

// String returns the semantic type name
func (t SemanticType) String() string {
	switch t {
	case TypeNumeric:
		return "numeric"
	case TypeDatetime:
		return "datetime"
	case TypeText:
		return "text"
	default:
		return "unknown"
	}
}

// ValueKind tags the variant held by a Value
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindDatetime
	KindText
)

// Value is a tagged-variant cell value. A column holds values of a single
// kind (or null) after normalization.
type Value struct {
	Kind ValueKind
	Num  float64
	Time time.Time
	Str  string
}

// Null returns the null value
func Null() Value {
	return Value{Kind: KindNull}
}

// Number wraps a float64
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// Datetime wraps a time.Time
func Datetime(t time.Time) Value {
	return Value{Kind: KindDatetime, Time: t}
}

// Text wraps a string
func Text(s string) Value {
	return Value{Kind: KindText, Str: s}
}

// IsNull reports whether the value is null
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// String renders the value for output and key comparison
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindDatetime:
		return v.Time.Format(time.RFC3339)
	case KindText:
		return v.Str
	default:
		return ""
	}
}

// Key returns a canonical representation used for set membership and
// equi-join matching. Text values have all whitespace removed so that
// values differing only in spacing still align.
func (v Value) Key() string {
	switch v.Kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindDatetime:
		return "d:" + strconv.FormatInt(v.Time.UnixNano(), 10)
	case KindText:
		return "t:" + stripWhitespace(v.Str)
	default:
		return ""
	}
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FromAny converts a loader-provided Go value into a Value. Loaders that
// read typed sources (parquet, SQL) produce native Go types; text sources
// produce strings. Unknown types fall back to their string rendering.
func FromAny(v interface{}) Value {
	if v == nil {
		return Null()
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return Null()
		}
		return Text(val)
	case []byte:
		if len(val) == 0 {
			return Null()
		}
		return Text(string(val))
	case bool:
		if val {
			return Text("true")
		}
		return Text("false")
	case int:
		return Number(float64(val))
	case int8:
		return Number(float64(val))
	case int16:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case uint:
		return Number(float64(val))
	case uint8:
		return Number(float64(val))
	case uint16:
		return Number(float64(val))
	case uint32:
		return Number(float64(val))
	case uint64:
		return Number(float64(val))
	case float32:
		return Number(float64(val))
	case float64:
		return Number(val)
	case time.Time:
		return Datetime(val)
	default:
		s := strings.TrimSpace(fmt.Sprintf("%v", val))
		if s == "" {
			return Null()
		}
		return Text(s)
	}
}
