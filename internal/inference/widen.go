package inference

import "github.com/yairfalse/driftcatch/pkg/types"

// Widen returns the narrowest type consistent with both inputs.
//
//	null  + T     = T
//	T     + T     = T
//	int   + float = float
//	otherwise     = str
func Widen(a, b types.ColumnType) types.ColumnType {
	switch {
	case a == types.ColumnTypeNull:
		return b
	case b == types.ColumnTypeNull:
		return a
	case a == b:
		return a
	case isNumeric(a) && isNumeric(b):
		return types.ColumnTypeFloat
	default:
		return types.ColumnTypeStr
	}
}

// WidenAll folds Widen over a sequence, starting from null
func WidenAll(ts ...types.ColumnType) types.ColumnType {
	result := types.ColumnTypeNull
	for _, t := range ts {
		result = Widen(result, t)
	}
	return result
}

func isNumeric(t types.ColumnType) bool {
	return t == types.ColumnTypeInt || t == types.ColumnTypeFloat
}
