package differ

import (
	"fmt"
	"strings"
	"time"

	"github.com/yairfalse/driftcatch/pkg/types"
)

// Differ compares two snapshots of the same source
type Differ interface {
	Compare(oldSnap, newSnap *types.Snapshot) (*Report, error)
}

// ChangeKind is the structural kind of a column change
type ChangeKind string

const (
	ChangeKindAdded                ChangeKind = "added"
	ChangeKindRemoved              ChangeKind = "removed"
	ChangeKindTypeChanged          ChangeKind = "type_changed"
	ChangeKindNullabilityTightened ChangeKind = "nullability_tightened"
	ChangeKindNullabilityRelaxed   ChangeKind = "nullability_relaxed"
)

// Kinds lists every change kind in report order
var Kinds = []ChangeKind{
	ChangeKindRemoved,
	ChangeKindAdded,
	ChangeKindTypeChanged,
	ChangeKindNullabilityTightened,
	ChangeKindNullabilityRelaxed,
}

// Severity is how likely a change is to break a downstream consumer
type Severity string

const (
	SeverityBreaking Severity = "BREAKING"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// Rank orders severities: BREAKING > WARNING > INFO. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityBreaking:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is as severe as min
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity accepts a severity name in any case
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToUpper(strings.TrimSpace(s))); sev {
	case SeverityBreaking, SeverityWarning, SeverityInfo:
		return sev, nil
	default:
		return "", fmt.Errorf("unknown severity %q (expected BREAKING, WARNING or INFO)", s)
	}
}

// Change is one classified schema difference
type Change struct {
	Column   string              `json:"column" yaml:"column"`
	Kind     ChangeKind          `json:"kind" yaml:"kind"`
	Severity Severity            `json:"severity" yaml:"severity"`
	Message  string              `json:"message" yaml:"message"`
	OldValue *types.ColumnSchema `json:"old,omitempty" yaml:"old,omitempty"`
	NewValue *types.ColumnSchema `json:"new,omitempty" yaml:"new,omitempty"`
}

func (c Change) String() string {
	return fmt.Sprintf("[%s] %s: %s", c.Severity, c.Column, c.Message)
}

// Summary counts changes by severity and kind
type Summary struct {
	Total           int                `json:"total" yaml:"total"`
	Breaking        int                `json:"breaking" yaml:"breaking"`
	Warnings        int                `json:"warnings" yaml:"warnings"`
	Info            int                `json:"info" yaml:"info"`
	ByKind          map[ChangeKind]int `json:"by_kind" yaml:"by_kind"`
	HighestSeverity Severity           `json:"highest_severity,omitempty" yaml:"highest_severity,omitempty"`
}

// SnapshotRef identifies one side of a comparison
type SnapshotRef struct {
	Source      string `json:"source" yaml:"source"`
	CapturedAt  string `json:"captured_at" yaml:"captured_at"`
	ColumnCount int    `json:"column_count" yaml:"column_count"`
}

// Report packages the changes between two snapshots with their provenance
type Report struct {
	Old         SnapshotRef `json:"old" yaml:"old"`
	New         SnapshotRef `json:"new" yaml:"new"`
	Changes     []Change    `json:"changes" yaml:"changes"`
	Summary     Summary     `json:"summary" yaml:"summary"`
	HasBreaking bool        `json:"has_breaking" yaml:"has_breaking"`
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
}
