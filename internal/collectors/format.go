package collectors

import (
	"path/filepath"
	"strings"

	"github.com/yairfalse/driftcatch/internal/errors"
)

// Supported source formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// DetectFormat resolves the source format. An explicit format wins; otherwise
// a .json extension selects JSON and everything else is read as CSV.
func DetectFormat(path, explicit string) (string, error) {
	if explicit != "" {
		switch f := strings.ToLower(strings.TrimSpace(explicit)); f {
		case FormatCSV, FormatJSON:
			return f, nil
		default:
			return "", errors.UsageError("unsupported format " + explicit + " (expected csv or json)")
		}
	}

	// strip any query string left on remote URLs
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON, nil
	}
	return FormatCSV, nil
}
