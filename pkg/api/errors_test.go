package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cfg := NewConfigError("bad threshold: %v", 1.5)
	assert.True(t, IsKind(cfg, KindConfig))
	assert.False(t, IsKind(cfg, KindSchema))
	assert.Contains(t, cfg.Error(), "bad threshold: 1.5")

	schema := NewSchemaError("orders", "no possible join key found")
	assert.True(t, IsKind(schema, KindSchema))
	assert.Contains(t, schema.Error(), "orders")

	data := NewDataError("orders", "column %q not found", "id")
	assert.True(t, IsKind(data, KindData))
	assert.Contains(t, data.Error(), `"id"`)
}

func TestWrapError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := WrapError(cause, KindData, "write failed")
	assert.True(t, IsKind(err, KindData))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write failed")
}

func TestIsKindOnWrappedChain(t *testing.T) {
	inner := NewSchemaError("t1", "nothing to join")
	outer := fmt.Errorf("step 2: %w", inner)
	assert.True(t, IsKind(outer, KindSchema))
	assert.False(t, IsKind(outer, KindConfig))
	assert.False(t, IsKind(errors.New("plain"), KindSchema))
}
