package differ

import (
	"fmt"
	"time"

	"github.com/yairfalse/driftcatch/pkg/types"
)

// Diff computes the classified changes from oldSnap to newSnap. Removals come
// first in the old column order, then additions in the new order, then
// modifications in the old order. Neither snapshot is modified; nil means no columns.
func Diff(oldSnap, newSnap *types.Snapshot) []Change {
	oldCols := columnsOf(oldSnap)
	newCols := columnsOf(newSnap)
	if oldCols.SameSchema(newCols) {
		return nil
	}

	var changes []Change

	for _, name := range oldCols.Names() {
		if !newCols.Has(name) {
			before, _ := oldCols.Get(name)
			changes = append(changes, newChange(name, ChangeKindRemoved, &before, nil,
				fmt.Sprintf("Column '%s' removed", name)))
		}
	}

	for _, name := range newCols.Names() {
		if !oldCols.Has(name) {
			after, _ := newCols.Get(name)
			changes = append(changes, newChange(name, ChangeKindAdded, nil, &after,
				fmt.Sprintf("Column '%s' added (%s, %s)", name, after.Type, types.NullabilityLabel(after.Nullable))))
		}
	}

	for _, name := range oldCols.Names() {
		after, ok := newCols.Get(name)
		if !ok {
			continue
		}
		before, _ := oldCols.Get(name)
		if change, ok := compareColumn(name, before, after); ok {
			changes = append(changes, change)
		}
	}

	return changes
}

// compareColumn reports at most one change per column; a type change hides
// any nullability change on the same column.
func compareColumn(name string, before, after types.ColumnSchema) (Change, bool) {
	switch {
	case before.Type != after.Type:
		return newChange(name, ChangeKindTypeChanged, &before, &after,
			fmt.Sprintf("Column '%s' type changed: %s -> %s", name, before.Type, after.Type)), true
	case before.Nullable && !after.Nullable:
		return newChange(name, ChangeKindNullabilityTightened, &before, &after,
			fmt.Sprintf("Column '%s' became non-nullable", name)), true
	case !before.Nullable && after.Nullable:
		return newChange(name, ChangeKindNullabilityRelaxed, &before, &after,
			fmt.Sprintf("Column '%s' became nullable", name)), true
	}
	return Change{}, false
}

func newChange(column string, kind ChangeKind, before, after *types.ColumnSchema, message string) Change {
	return Change{
		Column:   column,
		Kind:     kind,
		Severity: SeverityOf(kind),
		Message:  message,
		OldValue: before,
		NewValue: after,
	}
}

func columnsOf(s *types.Snapshot) types.Columns {
	if s == nil {
		return types.Columns{}
	}
	return s.Columns
}

// HasBreaking reports whether any change is BREAKING
func HasBreaking(changes []Change) bool {
	return HasAtLeast(changes, SeverityBreaking)
}

// HasAtLeast reports whether any change is at least as severe as min
func HasAtLeast(changes []Change, min Severity) bool {
	for _, c := range changes {
		if c.Severity.AtLeast(min) {
			return true
		}
	}
	return false
}

// Summarize counts changes by severity and kind
func Summarize(changes []Change) Summary {
	summary := Summary{
		Total:  len(changes),
		ByKind: make(map[ChangeKind]int),
	}
	for _, c := range changes {
		switch c.Severity {
		case SeverityBreaking:
			summary.Breaking++
		case SeverityWarning:
			summary.Warnings++
		case SeverityInfo:
			summary.Info++
		}
		summary.ByKind[c.Kind]++
		if c.Severity.Rank() > summary.HighestSeverity.Rank() {
			summary.HighestSeverity = c.Severity
		}
	}
	return summary
}

// FilterMinSeverity keeps changes at or above min, preserving order. It is
// for display only; gate decisions always see the full list.
func FilterMinSeverity(changes []Change, min Severity) []Change {
	filtered := make([]Change, 0, len(changes))
	for _, c := range changes {
		if c.Severity.AtLeast(min) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// DifferEngine wraps Diff with report metadata for structured outputs
type DifferEngine struct {
	now func() time.Time
}

// NewDifferEngine creates a differ engine
func NewDifferEngine() *DifferEngine {
	return &DifferEngine{now: time.Now}
}

// Compare diffs two snapshots and packages the result
func (d *DifferEngine) Compare(oldSnap, newSnap *types.Snapshot) (*Report, error) {
	changes := Diff(oldSnap, newSnap)
	if changes == nil {
		changes = []Change{}
	}

	return &Report{
		Old:         refOf(oldSnap),
		New:         refOf(newSnap),
		Changes:     changes,
		Summary:     Summarize(changes),
		HasBreaking: HasBreaking(changes),
		GeneratedAt: d.now().UTC(),
	}, nil
}

func refOf(s *types.Snapshot) SnapshotRef {
	if s == nil {
		return SnapshotRef{}
	}
	return SnapshotRef{
		Source:      s.Source,
		CapturedAt:  s.CapturedAt,
		ColumnCount: s.ColumnCount(),
	}
}
