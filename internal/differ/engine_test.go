package differ

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/driftcatch/pkg/types"
)

func col(t types.ColumnType, nullable bool) types.ColumnSchema {
	return types.ColumnSchema{Type: t, Nullable: nullable}
}

// snap builds a snapshot from alternating name, schema pairs
func snap(source string, pairs ...interface{}) *types.Snapshot {
	columns := types.NewColumns()
	for i := 0; i < len(pairs); i += 2 {
		columns.MustAdd(pairs[i].(string), pairs[i+1].(types.ColumnSchema))
	}
	return &types.Snapshot{Source: source, CapturedAt: "2026-01-01T00:00:00Z", Columns: columns}
}

func TestDiff_RemovedColumn(t *testing.T) {
	old := snap("a", "id", col(types.ColumnTypeInt, false), "name", col(types.ColumnTypeStr, false))
	cur := snap("a", "id", col(types.ColumnTypeInt, false))

	changes := Diff(old, cur)
	require.Len(t, changes, 1)
	assert.Equal(t, "name", changes[0].Column)
	assert.Equal(t, ChangeKindRemoved, changes[0].Kind)
	assert.Equal(t, SeverityBreaking, changes[0].Severity)
	assert.Contains(t, changes[0].Message, "removed")
	assert.NotNil(t, changes[0].OldValue)
	assert.Nil(t, changes[0].NewValue)
	assert.True(t, HasBreaking(changes))
}

func TestDiff_TypeChanged(t *testing.T) {
	old := snap("a", "id", col(types.ColumnTypeInt, false))
	cur := snap("a", "id", col(types.ColumnTypeStr, false))

	changes := Diff(old, cur)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeKindTypeChanged, changes[0].Kind)
	assert.Equal(t, SeverityBreaking, changes[0].Severity)
	assert.Contains(t, changes[0].Message, "type")
	assert.Contains(t, changes[0].Message, "int")
	assert.Contains(t, changes[0].Message, "str")
	assert.Equal(t, "Column 'id' type changed: int -> str", changes[0].Message)
}

func TestDiff_IntToFloatIsBreaking(t *testing.T) {
	changes := Diff(
		snap("a", "score", col(types.ColumnTypeInt, false)),
		snap("a", "score", col(types.ColumnTypeFloat, false)),
	)
	require.Len(t, changes, 1)
	assert.Equal(t, SeverityBreaking, changes[0].Severity)
}

func TestDiff_NullabilityTightened(t *testing.T) {
	changes := Diff(
		snap("a", "id", col(types.ColumnTypeInt, true)),
		snap("a", "id", col(types.ColumnTypeInt, false)),
	)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeKindNullabilityTightened, changes[0].Kind)
	assert.Equal(t, SeverityBreaking, changes[0].Severity)
	assert.Contains(t, changes[0].Message, "non-nullable")
}

func TestDiff_NullabilityRelaxed(t *testing.T) {
	changes := Diff(
		snap("a", "id", col(types.ColumnTypeInt, false)),
		snap("a", "id", col(types.ColumnTypeInt, true)),
	)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeKindNullabilityRelaxed, changes[0].Kind)
	assert.Equal(t, SeverityWarning, changes[0].Severity)
	assert.False(t, HasBreaking(changes))
}

func TestDiff_AddedColumn(t *testing.T) {
	changes := Diff(
		snap("a", "id", col(types.ColumnTypeInt, false)),
		snap("a", "id", col(types.ColumnTypeInt, false), "email", col(types.ColumnTypeStr, true)),
	)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeKindAdded, changes[0].Kind)
	assert.Equal(t, SeverityInfo, changes[0].Severity)
	assert.Equal(t, "Column 'email' added (str, nullable)", changes[0].Message)
	assert.Nil(t, changes[0].OldValue)
	assert.False(t, HasBreaking(changes))
}

func TestDiff_TypeChangeHidesNullability(t *testing.T) {
	changes := Diff(
		snap("a", "id", col(types.ColumnTypeInt, true)),
		snap("a", "id", col(types.ColumnTypeStr, false)),
	)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeKindTypeChanged, changes[0].Kind)
}

func TestDiff_Ordering(t *testing.T) {
	old := snap("a",
		"z", col(types.ColumnTypeInt, false),
		"gone2", col(types.ColumnTypeInt, false),
		"y", col(types.ColumnTypeInt, true),
		"gone1", col(types.ColumnTypeInt, false),
		"x", col(types.ColumnTypeInt, false),
	)
	cur := snap("a",
		"new2", col(types.ColumnTypeBool, false),
		"x", col(types.ColumnTypeInt, true),
		"y", col(types.ColumnTypeInt, false),
		"new1", col(types.ColumnTypeBool, false),
		"z", col(types.ColumnTypeStr, false),
	)

	changes := Diff(old, cur)

	var got []string
	for _, c := range changes {
		got = append(got, string(c.Kind)+":"+c.Column)
	}
	assert.Equal(t, []string{
		"removed:gone2",
		"removed:gone1",
		"added:new2",
		"added:new1",
		"type_changed:z",
		"nullability_tightened:y",
		"nullability_relaxed:x",
	}, got)
}

func TestDiff_Reflexive(t *testing.T) {
	s := snap("a", "id", col(types.ColumnTypeInt, false), "name", col(types.ColumnTypeStr, true))
	assert.Empty(t, Diff(s, s))

	// metadata is not part of the schema
	other := s.Clone()
	other.Source = "b"
	other.CapturedAt = "2030-01-01T00:00:00Z"
	assert.Empty(t, Diff(s, other))
}

func TestDiff_ColumnOrderIgnored(t *testing.T) {
	assert.Empty(t, Diff(
		snap("a", "id", col(types.ColumnTypeInt, false), "name", col(types.ColumnTypeStr, false)),
		snap("a", "name", col(types.ColumnTypeStr, false), "id", col(types.ColumnTypeInt, false)),
	))
}

func TestDiff_Symmetry(t *testing.T) {
	a := snap("a", "id", col(types.ColumnTypeInt, false), "old", col(types.ColumnTypeStr, false))
	b := snap("a", "id", col(types.ColumnTypeInt, false), "fresh", col(types.ColumnTypeStr, false))

	forward := Diff(a, b)
	backward := Diff(b, a)

	require.Len(t, forward, 2)
	require.Len(t, backward, 2)
	assert.Equal(t, ChangeKindRemoved, forward[0].Kind)
	assert.Equal(t, "old", forward[0].Column)
	assert.Equal(t, ChangeKindAdded, backward[1].Kind)
	assert.Equal(t, "old", backward[1].Column)
}

func TestDiff_DoesNotMutate(t *testing.T) {
	old := snap("a", "id", col(types.ColumnTypeInt, false))
	cur := snap("a", "id", col(types.ColumnTypeStr, true), "extra", col(types.ColumnTypeBool, false))
	oldCopy, newCopy := old.Clone(), cur.Clone()

	changes := Diff(old, cur)
	changes[1].OldValue.Type = types.ColumnTypeBool

	assert.True(t, old.Equal(oldCopy))
	assert.True(t, cur.Equal(newCopy))
}

func TestDiff_NilSnapshots(t *testing.T) {
	s := snap("a", "id", col(types.ColumnTypeInt, false))

	assert.Empty(t, Diff(nil, nil))

	changes := Diff(nil, s)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeKindAdded, changes[0].Kind)

	changes = Diff(s, nil)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeKindRemoved, changes[0].Kind)
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, SeverityBreaking, SeverityOf(ChangeKindRemoved))
	assert.Equal(t, SeverityBreaking, SeverityOf(ChangeKindTypeChanged))
	assert.Equal(t, SeverityBreaking, SeverityOf(ChangeKindNullabilityTightened))
	assert.Equal(t, SeverityWarning, SeverityOf(ChangeKindNullabilityRelaxed))
	assert.Equal(t, SeverityInfo, SeverityOf(ChangeKindAdded))
	assert.Panics(t, func() { SeverityOf("renamed") })

	for _, kind := range Kinds {
		assert.NotPanics(t, func() { SeverityOf(kind) })
	}
}

func TestSeverityRankAndParse(t *testing.T) {
	assert.Greater(t, SeverityBreaking.Rank(), SeverityWarning.Rank())
	assert.Greater(t, SeverityWarning.Rank(), SeverityInfo.Rank())
	assert.True(t, SeverityBreaking.AtLeast(SeverityWarning))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarning))

	sev, err := ParseSeverity("warning")
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, sev)

	_, err = ParseSeverity("critical")
	assert.Error(t, err)
}

func TestSummarizeAndFilter(t *testing.T) {
	changes := Diff(
		snap("a", "gone", col(types.ColumnTypeInt, false), "relaxed", col(types.ColumnTypeInt, false)),
		snap("a", "relaxed", col(types.ColumnTypeInt, true), "added", col(types.ColumnTypeStr, false)),
	)

	summary := Summarize(changes)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Breaking)
	assert.Equal(t, 1, summary.Warnings)
	assert.Equal(t, 1, summary.Info)
	assert.Equal(t, 1, summary.ByKind[ChangeKindRemoved])
	assert.Equal(t, SeverityBreaking, summary.HighestSeverity)

	assert.Len(t, FilterMinSeverity(changes, SeverityWarning), 2)
	assert.Len(t, FilterMinSeverity(changes, SeverityBreaking), 1)
	assert.Len(t, FilterMinSeverity(changes, SeverityInfo), 3)
	assert.True(t, HasAtLeast(changes, SeverityWarning))

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, Severity(""), empty.HighestSeverity)
}

func TestDifferEngine_Compare(t *testing.T) {
	engine := NewDifferEngine()
	engine.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }

	old := snap("users.csv", "id", col(types.ColumnTypeInt, false))
	cur := snap("users.csv", "id", col(types.ColumnTypeStr, false))

	report, err := engine.Compare(old, cur)
	require.NoError(t, err)
	assert.True(t, report.HasBreaking)
	assert.Equal(t, "users.csv", report.Old.Source)
	assert.Equal(t, 1, report.New.ColumnCount)
	assert.Equal(t, 1, report.Summary.Breaking)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), report.GeneratedAt)

	report, err = engine.Compare(old, old)
	require.NoError(t, err)
	assert.NotNil(t, report.Changes)
	assert.Empty(t, report.Changes)
	assert.False(t, report.HasBreaking)
}
