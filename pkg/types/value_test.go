package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueKey(t *testing.T) {
	tests := []struct {
		name string
		a    Value
		b    Value
		same bool
	}{
		{"equal numbers", Number(42), Number(42), true},
		{"different numbers", Number(42), Number(43), false},
		{"int-like float", Number(1), Number(1.0), true},
		{"text ignores spacing", Text("AB 12"), Text("AB12"), true},
		{"text ignores tabs", Text("AB\t12"), Text("A B12"), true},
		{"text case sensitive", Text("ab12"), Text("AB12"), false},
		{"number vs text never match", Number(1), Text("1"), false},
		{"equal datetimes", Datetime(time.Unix(100, 0)), Datetime(time.Unix(100, 0)), true},
		{"different datetimes", Datetime(time.Unix(100, 0)), Datetime(time.Unix(101, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.same {
				assert.Equal(t, tt.a.Key(), tt.b.Key())
			} else {
				assert.NotEqual(t, tt.a.Key(), tt.b.Key())
			}
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "42", Number(42).String())
	assert.Equal(t, "1.5", Number(1.5).String())
	assert.Equal(t, "hello", Text("hello").String())
	assert.Equal(t, "", Null().String())

	ts := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-04-01T12:00:00Z", Datetime(ts).String())
}

func TestFromAny(t *testing.T) {
	assert.True(t, FromAny(nil).IsNull())
	assert.True(t, FromAny("").IsNull())
	assert.True(t, FromAny([]byte(nil)).IsNull())

	assert.Equal(t, Number(7), FromAny(int64(7)))
	assert.Equal(t, Number(7), FromAny(7))
	assert.Equal(t, Number(2.5), FromAny(2.5))
	assert.Equal(t, Text("x"), FromAny("x"))
	assert.Equal(t, Text("bytes"), FromAny([]byte("bytes")))
	assert.Equal(t, Text("true"), FromAny(true))

	ts := time.Now()
	v := FromAny(ts)
	assert.Equal(t, KindDatetime, v.Kind)
	assert.True(t, v.Time.Equal(ts))
}
