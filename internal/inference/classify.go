package inference

import (
	"strconv"
	"strings"
)

// ClassifyText coerces a CSV cell into a Cell. The empty string is null;
// otherwise int, float and bool are tried in that order before falling back
// to text.
func ClassifyText(s string) Cell {
	if s == "" {
		return NullCell()
	}
	if v, ok := parseInt(s); ok {
		return IntCell(v)
	}
	if v, ok := parseFloat(s); ok {
		return FloatCell(v)
	}
	if v, ok := parseBool(s); ok {
		return BoolCell(v)
	}
	return TextCell(s)
}

// ClassifyNumber classifies a JSON number literal. Literals without a
// fraction or exponent are integers.
func ClassifyNumber(literal string) Cell {
	if !strings.ContainsAny(literal, ".eE") {
		if v, ok := parseInt(literal); ok {
			return IntCell(v)
		}
	}
	if v, ok := parseFloat(literal); ok {
		return FloatCell(v)
	}
	return TextCell(literal)
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// integers wider than int64 are still integers
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}

func parseFloat(s string) (float64, bool) {
	// ParseFloat also accepts hex mantissas, which are not decimal numbers
	if strings.Contains(strings.ToLower(s), "0x") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// out-of-range literals are still numbers
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
