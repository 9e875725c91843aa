package types

import (
	"errors"
	"fmt"
	"time"
)

// Snapshot represents a point-in-time capture of a data source's schema
type Snapshot struct {
	Source     string  `json:"source"`
	CapturedAt string  `json:"captured_at"`
	Columns    Columns `json:"columns"`
}

// NewSnapshot creates a snapshot stamped with the given capture time
func NewSnapshot(source string, capturedAt time.Time, columns Columns) *Snapshot {
	return &Snapshot{
		Source:     source,
		CapturedAt: FormatCaptureTime(capturedAt),
		Columns:    columns,
	}
}

// FormatCaptureTime renders a capture time the way snapshots store it
func FormatCaptureTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Validate checks that every column carries a known type
func (s *Snapshot) Validate() error {
	if s == nil {
		return errors.New("snapshot is nil")
	}

	var err error
	s.Columns.Each(func(name string, schema ColumnSchema) {
		if err != nil {
			return
		}
		if !schema.Type.IsValid() {
			err = fmt.Errorf("column %q has invalid type %q", name, schema.Type)
		}
	})
	return err
}

// ColumnCount returns the number of columns in the snapshot
func (s *Snapshot) ColumnCount() int {
	if s == nil {
		return 0
	}
	return s.Columns.Len()
}

// Clone creates a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		Source:     s.Source,
		CapturedAt: s.CapturedAt,
		Columns:    s.Columns.Clone(),
	}
}

// Equal reports whether two snapshots match field for field, column order included
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Source == other.Source &&
		s.CapturedAt == other.CapturedAt &&
		s.Columns.Equal(other.Columns)
}

// String returns a string representation of the snapshot
func (s *Snapshot) String() string {
	return fmt.Sprintf("%s snapshot (%d columns, captured %s)", s.Source, s.ColumnCount(), s.CapturedAt)
}
