package output

import (
	"fmt"
	"strings"

	"github.com/yairfalse/driftcatch/internal/differ"
)

// FormatNameOnlyReport lists only the names of changed columns (like git diff --name-only).
// No changes produce no output.
func FormatNameOnlyReport(changes []differ.Change) string {
	if len(changes) == 0 {
		return ""
	}

	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.Column)
	}
	return strings.Join(names, "\n") + "\n"
}

// FormatStatReport provides statistics output (like git diff --stat)
func FormatStatReport(changes []differ.Change) string {
	if len(changes) == 0 {
		return ""
	}

	width := 0
	for _, c := range changes {
		if len(c.Column) > width {
			width = len(c.Column)
		}
	}

	var output strings.Builder
	for _, c := range changes {
		output.WriteString(fmt.Sprintf(" %-*s | %s %s\n", width, c.Column, statSymbol(c.Kind), c.Kind))
	}
	output.WriteString(" " + SummaryLine(differ.Summarize(changes)) + "\n")

	return output.String()
}

// statSymbol is the git-style marker for a change kind
func statSymbol(kind differ.ChangeKind) string {
	switch kind {
	case differ.ChangeKindAdded:
		return "+"
	case differ.ChangeKindRemoved:
		return "-"
	default:
		return "~"
	}
}
