package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/driftcatch/pkg/types"
)

func sampleSnapshot() *types.Snapshot {
	columns := types.NewColumns()
	columns.MustAdd("zeta", types.ColumnSchema{Type: types.ColumnTypeInt}).
		MustAdd("alpha", types.ColumnSchema{Type: types.ColumnTypeStr, Nullable: true}).
		MustAdd("mid", types.ColumnSchema{Type: types.ColumnTypeNull, Nullable: true})

	return &types.Snapshot{
		Source:     "data/users.csv",
		CapturedAt: "2026-01-02T03:04:05Z",
		Columns:    columns,
	}
}

func TestEncode_Shape(t *testing.T) {
	data, err := Encode(sampleSnapshot())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"source": "data/users.csv"`)
	assert.Contains(t, text, `"captured_at": "2026-01-02T03:04:05Z"`)
	assert.True(t, strings.HasSuffix(text, "\n"))

	// columns keep insertion order, not key order
	zeta := strings.Index(text, `"zeta"`)
	alpha := strings.Index(text, `"alpha"`)
	mid := strings.Index(text, `"mid"`)
	assert.True(t, zeta < alpha && alpha < mid, "column order lost: %s", text)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := sampleSnapshot()

	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.True(t, original.Equal(decoded))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, decoded.Columns.Names())
}

func TestEncode_RejectsInvalid(t *testing.T) {
	columns := types.NewColumns()
	columns.MustAdd("id", types.ColumnSchema{Type: "decimal"})

	_, err := Encode(&types.Snapshot{Columns: columns})
	assert.Error(t, err)
}

func TestDecode_OptionalMetadata(t *testing.T) {
	snap, err := Decode([]byte(`{"columns":{"id":{"type":"int","nullable":false}}}`))
	require.NoError(t, err)
	assert.Equal(t, "", snap.Source)
	assert.Equal(t, 1, snap.ColumnCount())
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ``},
		{"not json", `hello`},
		{"array", `[]`},
		{"null", `null`},
		{"missing columns", `{"source":"a"}`},
		{"columns not object", `{"columns":[]}`},
		{"columns null", `{"columns":null}`},
		{"column not object", `{"columns":{"id":"int"}}`},
		{"missing type", `{"columns":{"id":{"nullable":true}}}`},
		{"missing nullable", `{"columns":{"id":{"type":"int"}}}`},
		{"unknown type", `{"columns":{"id":{"type":"decimal","nullable":true}}}`},
		{"type not string", `{"columns":{"id":{"type":1,"nullable":true}}}`},
		{"nullable not bool", `{"columns":{"id":{"type":"int","nullable":"yes"}}}`},
		{"duplicate column", `{"columns":{"id":{"type":"int","nullable":true},"id":{"type":"str","nullable":true}}}`},
		{"source not string", `{"source":1,"columns":{}}`},
		{"captured_at not string", `{"captured_at":null,"columns":{}}`},
		{"trailing data", `{"columns":{}} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
