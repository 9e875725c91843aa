// Package csv infers column schemas from comma-delimited files with a header row.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/yairfalse/driftcatch/internal/collectors"
	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/internal/inference"
	"github.com/yairfalse/driftcatch/pkg/types"
)

const (
	CollectorName = collectors.FormatCSV

	utf8BOM = "\ufeff"

	// rows between context checks
	cancelCheckInterval = 1024
)

// Collector implements collectors.Collector for CSV sources
type Collector struct {
	name string
}

// NewCollector creates a new CSV collector
func NewCollector() *Collector {
	return &Collector{
		name: CollectorName,
	}
}

// Name returns the name of the collector
func (c *Collector) Name() string {
	return c.name
}

// Status returns the collector status
func (c *Collector) Status() string {
	return collectors.StatusReady
}

// Validate checks if the provided configuration is valid for this collector
func (c *Collector) Validate(config collectors.Config) error {
	if config.Format != "" && config.Format != CollectorName {
		return fmt.Errorf("invalid format '%s', expected '%s'", config.Format, CollectorName)
	}
	return collectors.ValidateSource(config)
}

// Collect reads the whole source and returns its inferred snapshot
func (c *Collector) Collect(ctx context.Context, config collectors.Config) (*types.Snapshot, error) {
	src, err := config.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	builder, err := Infer(ctx, src)
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.MalformedInputError(config.SourceName(), err)
	}

	return builder.Build(config.SourceName(), config.Now())
}

// Infer folds every record of r into a schema builder. The first record is
// the header. Short rows count as missing values for the absent columns and
// surplus cells are ignored.
func Infer(ctx context.Context, r io.Reader) (*inference.Builder, error) {
	reader := stdcsv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	// a stray quote inside an unquoted field is literal text
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, stderrors.New("no header row")
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, len(header))
	copy(names, header)
	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], utf8BOM)
	}

	builder := inference.NewBuilder()
	accs := make([]*inference.Accumulator, len(names))
	for i, name := range names {
		if builder.Has(name) {
			return nil, fmt.Errorf("duplicate column name %q in header", name)
		}
		accs[i] = builder.Column(name)
	}

	for row := 1; ; row++ {
		if row%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		for i, acc := range accs {
			if i < len(record) {
				acc.Observe(inference.ClassifyText(record[i]))
			} else {
				acc.ObserveMissing()
			}
		}
	}

	return builder, nil
}
