package output

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/yairfalse/driftcatch/internal/differ"
)

// ColorEnabled decides whether output to f may carry ANSI colour
func ColorEnabled(noColor bool, f *os.File) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// colorize wraps text in the given attributes when enabled
func colorize(enabled bool, text string, attrs ...color.Attribute) string {
	if !enabled {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

func severityAttrs(s differ.Severity) []color.Attribute {
	switch s {
	case differ.SeverityBreaking:
		return []color.Attribute{color.FgRed, color.Bold}
	case differ.SeverityWarning:
		return []color.Attribute{color.FgYellow}
	default:
		return []color.Attribute{color.FgCyan}
	}
}
