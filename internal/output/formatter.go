package output

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/yairfalse/driftcatch/internal/differ"
)

// OutputFormat represents the available report formats
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
	FormatNameOnly OutputFormat = "name-only"
	FormatStat     OutputFormat = "stat"
)

// Formats lists every supported report format
var Formats = []OutputFormat{FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatNameOnly, FormatStat}

// ParseFormat resolves a format name, accepting the usual short aliases
func ParseFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "table":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "name-only":
		return FormatNameOnly, nil
	case "stat":
		return FormatStat, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// Formatter renders diff reports
type Formatter struct {
	format OutputFormat
	color  bool
}

// NewFormatter creates a formatter. Colour only affects the text format.
func NewFormatter(format OutputFormat, color bool) *Formatter {
	if format == "" {
		format = FormatText
	}
	return &Formatter{format: format, color: color}
}

// Render formats the report. Text output always ends with a newline.
func (f *Formatter) Render(report *differ.Report) ([]byte, error) {
	switch f.format {
	case FormatText:
		return []byte(f.renderText(report.Changes) + "\n"), nil
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		return data, nil
	case FormatMarkdown:
		return []byte(FormatMarkdownReport(report)), nil
	case FormatNameOnly:
		return []byte(FormatNameOnlyReport(report.Changes)), nil
	case FormatStat:
		return []byte(FormatStatReport(report.Changes)), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", f.format)
	}
}

// Write renders the report to w
func (f *Formatter) Write(w io.Writer, report *differ.Report) error {
	data, err := f.Render(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (f *Formatter) renderText(changes []differ.Change) string {
	if !f.color {
		return FormatReport(changes)
	}
	return formatReport(changes, func(s differ.Severity) string {
		return colorize(true, string(s), severityAttrs(s)...)
	})
}

// FormatMarkdownReport renders the report as a Markdown section for PR comments
func FormatMarkdownReport(report *differ.Report) string {
	var b strings.Builder
	b.WriteString("## Schema drift report\n\n")
	if report.Old.Source != "" || report.New.Source != "" {
		fmt.Fprintf(&b, "- **Old:** `%s` (%s)\n", report.Old.Source, report.Old.CapturedAt)
		fmt.Fprintf(&b, "- **New:** `%s` (%s)\n\n", report.New.Source, report.New.CapturedAt)
	}

	if len(report.Changes) == 0 {
		b.WriteString(NoChangesMessage + "\n")
		return b.String()
	}

	b.WriteString("| Severity | Column | Change | Message |\n")
	b.WriteString("|----------|--------|--------|---------|\n")
	for _, c := range report.Changes {
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n",
			c.Severity, escapeMarkdown(c.Column), c.Kind, escapeMarkdown(c.Message))
	}
	b.WriteString("\n")
	b.WriteString("**" + SummaryLine(report.Summary) + "**\n")
	return b.String()
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
