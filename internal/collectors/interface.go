package collectors

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/pkg/types"
)

// Status values reported by collectors
const (
	StatusReady = "ready"
)

// StdinPath is the source path that reads from standard input
const StdinPath = "-"

// Config holds the input for a single collection run
type Config struct {
	// Format is the resolved source format, "csv" or "json"
	Format string `json:"format"`

	// Path is the local path of the source, or StdinPath
	Path string `json:"path"`

	// Source is the identifier stamped into the snapshot. Defaults to Path.
	Source string `json:"source,omitempty"`

	// Reader, when set, is read instead of opening Path
	Reader io.Reader `json:"-"`

	// Clock supplies the capture time. Defaults to time.Now.
	Clock func() time.Time `json:"-"`
}

// Collector infers a schema snapshot from one source format
type Collector interface {
	Name() string
	Status() string

	Collect(ctx context.Context, config Config) (*types.Snapshot, error)
	Validate(config Config) error
}

// SourceName returns the identifier to stamp into the snapshot
func (c Config) SourceName() string {
	if c.Source != "" {
		return c.Source
	}
	return c.Path
}

// Now returns the capture time in UTC
func (c Config) Now() time.Time {
	if c.Clock != nil {
		return c.Clock().UTC()
	}
	return time.Now().UTC()
}

// Open returns the source stream. The caller must close it.
func (c Config) Open() (io.ReadCloser, error) {
	if c.Reader != nil {
		return io.NopCloser(c.Reader), nil
	}
	if c.Path == StdinPath {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SourceNotFoundError(c.Path, err)
		}
		return nil, errors.IOError(c.Path, err)
	}
	return f, nil
}

// ValidateSource checks the parts of a config every collector needs
func ValidateSource(config Config) error {
	if config.Reader == nil && config.Path == "" {
		return errors.UsageError("source path is required")
	}
	return nil
}
