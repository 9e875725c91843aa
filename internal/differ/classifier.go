package differ

import "fmt"

// SeverityOf is the fixed severity table. Removal, type change and
// tightening break consumers; relaxing nullability may; additions do not.
func SeverityOf(kind ChangeKind) Severity {
	switch kind {
	case ChangeKindRemoved, ChangeKindTypeChanged, ChangeKindNullabilityTightened:
		return SeverityBreaking
	case ChangeKindNullabilityRelaxed:
		return SeverityWarning
	case ChangeKindAdded:
		return SeverityInfo
	}
	panic(fmt.Sprintf("differ: unhandled change kind %q", kind))
}
