package output

import (
	"fmt"
	"strings"

	"github.com/yairfalse/driftcatch/internal/differ"
)

// NoChangesMessage is the whole report when two snapshots match
const NoChangesMessage = "No schema changes detected."

// FormatReport renders changes as plain text, one line per change in the
// order given, followed by a count summary.
func FormatReport(changes []differ.Change) string {
	return formatReport(changes, func(s differ.Severity) string { return string(s) })
}

func formatReport(changes []differ.Change, tag func(differ.Severity) string) string {
	if len(changes) == 0 {
		return NoChangesMessage
	}

	var b strings.Builder
	for _, c := range changes {
		fmt.Fprintf(&b, "[%s] %s: %s\n", tag(c.Severity), c.Column, c.Message)
	}
	b.WriteString("\n")
	b.WriteString(SummaryLine(differ.Summarize(changes)))
	return b.String()
}

// SummaryLine renders "N change(s): B breaking, W warning(s), I info"
func SummaryLine(s differ.Summary) string {
	return fmt.Sprintf("%d change(s): %d breaking, %d warning(s), %d info",
		s.Total, s.Breaking, s.Warnings, s.Info)
}

// GateMessage is the final line of a check run
func GateMessage(changes []differ.Change) string {
	return GateMessageFor(changes, differ.SeverityBreaking)
}

// GateMessageFor is GateMessage with a configurable blocking severity
func GateMessageFor(changes []differ.Change, failOn differ.Severity) string {
	blocking := len(differ.FilterMinSeverity(changes, failOn))
	if blocking == 0 {
		return "No breaking changes. Pipeline is safe."
	}
	label := "breaking"
	if failOn != differ.SeverityBreaking {
		label = strings.ToLower(string(failOn)) + "-or-worse"
	}
	return fmt.Sprintf("%d %s change(s) detected! Pipeline blocked.", blocking, label)
}
