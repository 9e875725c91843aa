package types

import (
	"fmt"
	"strings"
)

// ColumnType is the primitive type inferred for a column
type ColumnType string

const (
	ColumnTypeInt   ColumnType = "int"
	ColumnTypeFloat ColumnType = "float"
	ColumnTypeStr   ColumnType = "str"
	ColumnTypeBool  ColumnType = "bool"
	// ColumnTypeNull marks a column with no observable non-null values
	ColumnTypeNull ColumnType = "null"
)

// IsValid checks if the ColumnType is one of the known tags
func (ct ColumnType) IsValid() bool {
	switch ct {
	case ColumnTypeInt, ColumnTypeFloat, ColumnTypeStr, ColumnTypeBool, ColumnTypeNull:
		return true
	default:
		return false
	}
}

// String returns the string representation of ColumnType
func (ct ColumnType) String() string {
	return string(ct)
}

// ParseColumnType converts a stored type tag into a ColumnType
func ParseColumnType(s string) (ColumnType, error) {
	ct := ColumnType(s)
	if !ct.IsValid() {
		return "", fmt.Errorf("unknown column type %q", s)
	}
	return ct, nil
}

// ColumnSchema describes a single column
type ColumnSchema struct {
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
}

// String renders the schema as "int, nullable" or "str, not-null"
func (c ColumnSchema) String() string {
	return c.Type.String() + ", " + NullabilityLabel(c.Nullable)
}

// NullabilityLabel returns the human-readable nullability of a column
func NullabilityLabel(nullable bool) string {
	if nullable {
		return "nullable"
	}
	return "not-null"
}

// Columns is an ordered set of column schemas keyed by unique name.
// The zero value is an empty set ready to use.
type Columns struct {
	names  []string
	byName map[string]ColumnSchema
}

// NewColumns creates an empty column set
func NewColumns() Columns {
	return Columns{byName: make(map[string]ColumnSchema)}
}

// Add appends a column; names must be unique
func (c *Columns) Add(name string, schema ColumnSchema) error {
	if c.byName == nil {
		c.byName = make(map[string]ColumnSchema)
	}
	if _, exists := c.byName[name]; exists {
		return fmt.Errorf("duplicate column name %q", name)
	}
	c.names = append(c.names, name)
	c.byName[name] = schema
	return nil
}

// MustAdd is Add for literals built in code and tests
func (c *Columns) MustAdd(name string, schema ColumnSchema) *Columns {
	if err := c.Add(name, schema); err != nil {
		panic(err)
	}
	return c
}

// Get returns the schema for a column
func (c Columns) Get(name string) (ColumnSchema, bool) {
	schema, ok := c.byName[name]
	return schema, ok
}

// Has reports whether the column exists
func (c Columns) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Len returns the number of columns
func (c Columns) Len() int {
	return len(c.names)
}

// Names returns the column names in insertion order
func (c Columns) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Each calls fn for every column in insertion order
func (c Columns) Each(fn func(name string, schema ColumnSchema)) {
	for _, name := range c.names {
		fn(name, c.byName[name])
	}
}

// Clone creates a deep copy of the column set
func (c Columns) Clone() Columns {
	clone := Columns{
		names:  make([]string, len(c.names)),
		byName: make(map[string]ColumnSchema, len(c.byName)),
	}
	copy(clone.names, c.names)
	for k, v := range c.byName {
		clone.byName[k] = v
	}
	return clone
}

// Equal reports whether both sets hold the same columns in the same order
func (c Columns) Equal(other Columns) bool {
	if len(c.names) != len(other.names) {
		return false
	}
	for i, name := range c.names {
		if other.names[i] != name {
			return false
		}
		if c.byName[name] != other.byName[name] {
			return false
		}
	}
	return true
}

// SameSchema reports whether both sets describe the same columns, ignoring order
func (c Columns) SameSchema(other Columns) bool {
	if len(c.names) != len(other.names) {
		return false
	}
	for name, schema := range c.byName {
		if otherSchema, ok := other.byName[name]; !ok || otherSchema != schema {
			return false
		}
	}
	return true
}

// String lists the columns as "name:type" pairs
func (c Columns) String() string {
	parts := make([]string, 0, len(c.names))
	for _, name := range c.names {
		parts = append(parts, name+":"+c.byName[name].Type.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
