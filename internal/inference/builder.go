package inference

import (
	"time"

	"github.com/yairfalse/driftcatch/pkg/types"
)

// Accumulator folds the observations for one column into a ColumnSchema
type Accumulator struct {
	columnType types.ColumnType
	sawNull    bool
	observed   int
}

// NewAccumulator creates an accumulator with no observations
func NewAccumulator() *Accumulator {
	return &Accumulator{columnType: types.ColumnTypeNull}
}

// Observe records one cell
func (a *Accumulator) Observe(c Cell) {
	a.observed++
	if c.IsNull() {
		a.sawNull = true
		return
	}
	a.columnType = Widen(a.columnType, c.Type())
}

// ObserveMissing records a row or object that had no value for the column
func (a *Accumulator) ObserveMissing() {
	a.Observe(NullCell())
}

// Schema returns the inferred schema. A column with no observations at all
// comes from an empty data set and is reported as nullable.
func (a *Accumulator) Schema() types.ColumnSchema {
	return types.ColumnSchema{
		Type:     a.columnType,
		Nullable: a.sawNull || a.observed == 0,
	}
}

// Builder collects per-column accumulators in first-seen order
type Builder struct {
	order []string
	cols  map[string]*Accumulator
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{cols: make(map[string]*Accumulator)}
}

// Column returns the accumulator for name, creating it on first sight
func (b *Builder) Column(name string) *Accumulator {
	if acc, ok := b.cols[name]; ok {
		return acc
	}
	acc := NewAccumulator()
	b.order = append(b.order, name)
	b.cols[name] = acc
	return acc
}

// Has reports whether the column has been seen
func (b *Builder) Has(name string) bool {
	_, ok := b.cols[name]
	return ok
}

// Names returns the columns in first-seen order
func (b *Builder) Names() []string {
	names := make([]string, len(b.order))
	copy(names, b.order)
	return names
}

// Columns builds the column set
func (b *Builder) Columns() (types.Columns, error) {
	columns := types.NewColumns()
	for _, name := range b.order {
		if err := columns.Add(name, b.cols[name].Schema()); err != nil {
			return types.Columns{}, err
		}
	}
	return columns, nil
}

// Build produces the snapshot stamped with source and capture time
func (b *Builder) Build(source string, capturedAt time.Time) (*types.Snapshot, error) {
	columns, err := b.Columns()
	if err != nil {
		return nil, err
	}
	return types.NewSnapshot(source, capturedAt, columns), nil
}
