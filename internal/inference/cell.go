// Package inference holds the pure rules that turn raw cell values into
// column schemas: the closed cell variant, text classification, and the
// widening lattice used to merge observations.
package inference

import (
	"fmt"

	"github.com/yairfalse/driftcatch/pkg/types"
)

// Kind enumerates the variants a raw cell can take
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Cell is a single observed value. Only the field matching Kind is meaningful.
type Cell struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	text string
}

func NullCell() Cell           { return Cell{kind: KindNull} }
func IntCell(v int64) Cell     { return Cell{kind: KindInt, i: v} }
func FloatCell(v float64) Cell { return Cell{kind: KindFloat, f: v} }
func BoolCell(v bool) Cell     { return Cell{kind: KindBool, b: v} }
func TextCell(v string) Cell   { return Cell{kind: KindText, text: v} }

// Kind returns the variant of the cell
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Int returns the integer payload
func (c Cell) Int() int64 { return c.i }

// Float returns the float payload
func (c Cell) Float() float64 { return c.f }

// Bool returns the boolean payload
func (c Cell) Bool() bool { return c.b }

// Text returns the text payload
func (c Cell) Text() string { return c.text }

// Type maps the cell variant onto the column type it evidences
func (c Cell) Type() types.ColumnType {
	switch c.kind {
	case KindInt:
		return types.ColumnTypeInt
	case KindFloat:
		return types.ColumnTypeFloat
	case KindBool:
		return types.ColumnTypeBool
	case KindText:
		return types.ColumnTypeStr
	case KindNull:
		return types.ColumnTypeNull
	}
	panic(fmt.Sprintf("inference: unhandled cell kind %v", c.kind))
}

func (c Cell) String() string {
	switch c.kind {
	case KindInt:
		return fmt.Sprintf("%d", c.i)
	case KindFloat:
		return fmt.Sprintf("%g", c.f)
	case KindBool:
		return fmt.Sprintf("%t", c.b)
	case KindText:
		return fmt.Sprintf("%q", c.text)
	default:
		return "null"
	}
}
