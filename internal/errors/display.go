package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/viper"
)

// DisplayErrorTo writes the enhanced error display to w
func DisplayErrorTo(w io.Writer, err error) {
	noColor := os.Getenv("NO_COLOR") != "" || os.Getenv("DRIFTCATCH_NO_COLOR") != ""

	// Also check viper configuration (set by --no-color flag)
	if viperNoColor := getViperBool("output.no_color"); viperNoColor {
		noColor = true
	}

	color.NoColor = noColor

	var driftErr *DriftError
	if !stderrors.As(err, &driftErr) {
		fmt.Fprintf(w, "%s\n", color.RedString("Error: %v", err))
		return
	}

	colorFunc := getErrorStyle(driftErr.Type)

	fmt.Fprintf(w, "\n%s\n", colorFunc("Error: %s", driftErr.Error()))

	if driftErr.Cause != "" {
		fmt.Fprintf(w, "   %s %s\n", color.YellowString("Cause:"), color.HiBlackString(driftErr.Cause))
	}

	if driftErr.Environment != "" {
		fmt.Fprintf(w, "   %s %s\n", color.CyanString("Environment:"), color.HiBlackString(driftErr.Environment))
	}

	if len(driftErr.Solutions) > 0 {
		fmt.Fprintf(w, "\n   %s\n", color.GreenString("Solutions:"))
		for i, solution := range driftErr.Solutions {
			fmt.Fprintf(w, "   %s %s\n", color.HiBlackString(fmt.Sprintf("%d.", i+1)), solution)
		}
	}

	if driftErr.Help != "" {
		fmt.Fprintf(w, "\n   %s %s\n", color.MagentaString("Help:"), color.HiWhiteString(driftErr.Help))
	}

	fmt.Fprintln(w)
}

// getErrorStyle returns the appropriate color function for an error type
func getErrorStyle(errType ErrorType) func(format string, a ...interface{}) string {
	switch errType {
	case ErrorTypeMalformedInput, ErrorTypeCorruptSnapshot:
		return color.YellowString
	case ErrorTypeNotFound:
		return color.MagentaString
	case ErrorTypeConfiguration, ErrorTypeUsage:
		return color.CyanString
	default:
		return color.RedString
	}
}

// FormatErrorWithContext formats an error with additional context for CI/CD environments
func FormatErrorWithContext(err error, context map[string]string) string {
	var sb strings.Builder

	var driftErr *DriftError
	if !stderrors.As(err, &driftErr) {
		sb.WriteString(fmt.Sprintf("Error: %v\n", err))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Error: %s\n", driftErr.Message))
	sb.WriteString(fmt.Sprintf("Type: %s\n", driftErr.Type))

	if driftErr.Path != "" {
		sb.WriteString(fmt.Sprintf("Path: %s\n", driftErr.Path))
	}

	if driftErr.Cause != "" {
		sb.WriteString(fmt.Sprintf("Cause: %s\n", driftErr.Cause))
	}

	if len(context) > 0 {
		keys := make([]string, 0, len(context))
		for k := range context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nContext:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, context[k]))
		}
	}

	if len(driftErr.Solutions) > 0 {
		sb.WriteString("\nSolutions:\n")
		for i, solution := range driftErr.Solutions {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, solution))
		}
	}

	if driftErr.Help != "" {
		sb.WriteString(fmt.Sprintf("Help: %s\n", driftErr.Help))
	}

	return sb.String()
}

// DisplayWarningTo writes a warning line to w
func DisplayWarningTo(w io.Writer, message string) {
	fmt.Fprintf(w, "Warning: %s\n", color.YellowString(message))
}

// getViperBool safely gets a boolean value from viper
func getViperBool(key string) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return false
}
