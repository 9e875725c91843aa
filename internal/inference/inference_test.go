package inference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/driftcatch/pkg/types"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"", KindNull},
		{"42", KindInt},
		{"-7", KindInt},
		{"+3", KindInt},
		{"99999999999999999999", KindInt},
		{"3.14", KindFloat},
		{"1e5", KindFloat},
		{"-0.5", KindFloat},
		{"true", KindBool},
		{"FALSE", KindBool},
		{"True", KindBool},
		{"0x1F", KindText},
		{"hello", KindText},
		{" ", KindText},
		{" 1", KindText},
		{"2.5 ", KindText},
		{"yes", KindText},
		{"NULL", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyText(tt.input).Kind())
		})
	}
}

func TestClassifyText_Values(t *testing.T) {
	assert.Equal(t, int64(42), ClassifyText("42").Int())
	assert.InDelta(t, 3.14, ClassifyText("3.14").Float(), 1e-9)
	assert.True(t, ClassifyText("TRUE").Bool())
	assert.Equal(t, "abc", ClassifyText("abc").Text())
}

func TestClassifyNumber(t *testing.T) {
	assert.Equal(t, KindInt, ClassifyNumber("1").Kind())
	assert.Equal(t, KindInt, ClassifyNumber("-12").Kind())
	assert.Equal(t, KindInt, ClassifyNumber("123456789012345678901234567890").Kind())
	assert.Equal(t, KindFloat, ClassifyNumber("1.0").Kind())
	assert.Equal(t, KindFloat, ClassifyNumber("2e3").Kind())
	assert.Equal(t, KindFloat, ClassifyNumber("1E-2").Kind())
	assert.Equal(t, KindFloat, ClassifyNumber("1e400").Kind())
}

func TestCellType(t *testing.T) {
	assert.Equal(t, types.ColumnTypeNull, NullCell().Type())
	assert.Equal(t, types.ColumnTypeInt, IntCell(1).Type())
	assert.Equal(t, types.ColumnTypeFloat, FloatCell(1).Type())
	assert.Equal(t, types.ColumnTypeBool, BoolCell(true).Type())
	assert.Equal(t, types.ColumnTypeStr, TextCell("x").Type())
	assert.Equal(t, `"x"`, TextCell("x").String())
	assert.Equal(t, "null", NullCell().String())
}

func TestWiden(t *testing.T) {
	all := []types.ColumnType{
		types.ColumnTypeNull,
		types.ColumnTypeInt,
		types.ColumnTypeFloat,
		types.ColumnTypeBool,
		types.ColumnTypeStr,
	}

	t.Run("null is identity", func(t *testing.T) {
		for _, ct := range all {
			assert.Equal(t, ct, Widen(types.ColumnTypeNull, ct))
			assert.Equal(t, ct, Widen(ct, types.ColumnTypeNull))
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, ct := range all {
			assert.Equal(t, ct, Widen(ct, ct))
		}
	})

	t.Run("commutative", func(t *testing.T) {
		for _, a := range all {
			for _, b := range all {
				assert.Equal(t, Widen(a, b), Widen(b, a), "%s/%s", a, b)
			}
		}
	})

	t.Run("associative", func(t *testing.T) {
		for _, a := range all {
			for _, b := range all {
				for _, c := range all {
					assert.Equal(t, Widen(Widen(a, b), c), Widen(a, Widen(b, c)), "%s/%s/%s", a, b, c)
				}
			}
		}
	})

	t.Run("numeric promotion", func(t *testing.T) {
		assert.Equal(t, types.ColumnTypeFloat, Widen(types.ColumnTypeInt, types.ColumnTypeFloat))
	})

	t.Run("mixed falls back to str", func(t *testing.T) {
		assert.Equal(t, types.ColumnTypeStr, Widen(types.ColumnTypeInt, types.ColumnTypeBool))
		assert.Equal(t, types.ColumnTypeStr, Widen(types.ColumnTypeFloat, types.ColumnTypeStr))
		assert.Equal(t, types.ColumnTypeStr, Widen(types.ColumnTypeBool, types.ColumnTypeStr))
	})

	assert.Equal(t, types.ColumnTypeNull, WidenAll())
	assert.Equal(t, types.ColumnTypeFloat, WidenAll(types.ColumnTypeInt, types.ColumnTypeNull, types.ColumnTypeFloat))
}

func TestAccumulator(t *testing.T) {
	t.Run("no observations is nullable null", func(t *testing.T) {
		schema := NewAccumulator().Schema()
		assert.Equal(t, types.ColumnTypeNull, schema.Type)
		assert.True(t, schema.Nullable)
	})

	t.Run("all null", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Observe(NullCell())
		acc.ObserveMissing()
		schema := acc.Schema()
		assert.Equal(t, types.ColumnTypeNull, schema.Type)
		assert.True(t, schema.Nullable)
	})

	t.Run("ints only", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Observe(IntCell(1))
		acc.Observe(IntCell(2))
		assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeInt, Nullable: false}, acc.Schema())
	})

	t.Run("int and null", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Observe(IntCell(1))
		acc.Observe(NullCell())
		assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeInt, Nullable: true}, acc.Schema())
	})

	t.Run("int then float", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Observe(IntCell(1))
		acc.Observe(FloatCell(2.5))
		assert.Equal(t, types.ColumnTypeFloat, acc.Schema().Type)
	})
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.Column("id").Observe(IntCell(1))
	b.Column("name").Observe(TextCell("Alice"))
	b.Column("id").Observe(IntCell(2))
	b.Column("name").Observe(NullCell())

	assert.True(t, b.Has("id"))
	assert.False(t, b.Has("missing"))
	assert.Equal(t, []string{"id", "name"}, b.Names())

	captured := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	snap, err := b.Build("users.csv", captured)
	require.NoError(t, err)

	assert.Equal(t, "users.csv", snap.Source)
	assert.Equal(t, "2026-03-01T11:00:00Z", snap.CapturedAt)
	assert.Equal(t, []string{"id", "name"}, snap.Columns.Names())

	id, ok := snap.Columns.Get("id")
	require.True(t, ok)
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeInt, Nullable: false}, id)

	name, ok := snap.Columns.Get("name")
	require.True(t, ok)
	assert.Equal(t, types.ColumnSchema{Type: types.ColumnTypeStr, Nullable: true}, name)
}
