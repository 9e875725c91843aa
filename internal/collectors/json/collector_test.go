package json

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/driftcatch/internal/collectors"
	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/pkg/types"
)

func collectString(t *testing.T, data string) (*types.Snapshot, error) {
	t.Helper()
	return NewCollector().Collect(context.Background(), collectors.Config{
		Format: CollectorName,
		Source: "inline.json",
		Reader: strings.NewReader(data),
		Clock: func() time.Time {
			return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		},
	})
}

func schemaOf(t *testing.T, snap *types.Snapshot, name string) types.ColumnSchema {
	t.Helper()
	schema, ok := snap.Columns.Get(name)
	require.True(t, ok, "column %q missing", name)
	return schema
}

func TestCollector_Basic(t *testing.T) {
	snap, err := collectString(t, `[{"id":1,"name":"Alice","active":true}]`)
	require.NoError(t, err)

	assert.Equal(t, "inline.json", snap.Source)
	assert.Equal(t, "2026-01-02T03:04:05Z", snap.CapturedAt)
	assert.Equal(t, []string{"id", "name", "active"}, snap.Columns.Names())
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeInt}, schemaOf(t, snap, "id"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeStr}, schemaOf(t, snap, "name"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeBool}, schemaOf(t, snap, "active"))
}

func TestCollector_Values(t *testing.T) {
	data := `[
		{"i": 1, "f": 1.5, "mix": 1, "s": "42", "n": null, "obj": {"a": [1, 2]}, "arr": [], "e": 1e3},
		{"i": 2, "f": 2,   "mix": "x", "s": "y", "n": null, "obj": {}, "arr": [{"b": null}], "e": 2}
	]`

	snap, err := collectString(t, data)
	require.NoError(t, err)

	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeInt}, schemaOf(t, snap, "i"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeFloat}, schemaOf(t, snap, "f"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeStr}, schemaOf(t, snap, "mix"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeStr}, schemaOf(t, snap, "s"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeNull, Nullable: true}, schemaOf(t, snap, "n"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeStr}, schemaOf(t, snap, "obj"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeStr}, schemaOf(t, snap, "arr"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeFloat}, schemaOf(t, snap, "e"))
}

func TestCollector_KeyUnionAndOrder(t *testing.T) {
	data := `[{"b":1,"a":2},{"a":3,"c":"x"},{"b":4,"a":5}]`

	snap, err := collectString(t, data)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, snap.Columns.Names())
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeInt, Nullable: true}, schemaOf(t, snap, "b"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeInt, Nullable: false}, schemaOf(t, snap, "a"))
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeStr, Nullable: true}, schemaOf(t, snap, "c"))
}

func TestCollector_LateKeyIsNullable(t *testing.T) {
	snap, err := collectString(t, `[{"id":1},{"id":2,"late":true}]`)
	require.NoError(t, err)
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeBool, Nullable: true}, schemaOf(t, snap, "late"))
}

func TestCollector_DuplicateKeyLastWins(t *testing.T) {
	snap, err := collectString(t, `[{"id":"x","id":1}]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, snap.Columns.Names())
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeInt}, schemaOf(t, snap, "id"))
}

func TestCollector_EmptyArray(t *testing.T) {
	snap, err := collectString(t, `[]`)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.ColumnCount())
}

func TestCollector_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ``},
		{"object", `{"id":1}`},
		{"scalar", `42`},
		{"array of scalars", `[1,2]`},
		{"nested array", `[[{"id":1}]]`},
		{"truncated", `[{"id":1},`},
		{"trailing data", `[{"id":1}] [`},
		{"invalid syntax", `[{"id":}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collectString(t, tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsMalformedInput(err), "got %v", err)
		})
	}
}

func TestCollector_CanceledContext(t *testing.T) {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 5000; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id":1}`)
	}
	b.WriteString("]")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCollector().Collect(ctx, collectors.Config{Reader: strings.NewReader(b.String())})
	assert.ErrorIs(t, err, context.Canceled)
}
