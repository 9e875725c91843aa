// Package json infers column schemas from a JSON array of flat objects.
package json

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/yairfalse/driftcatch/internal/collectors"
	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/internal/inference"
	"github.com/yairfalse/driftcatch/pkg/types"
)

const (
	CollectorName = collectors.FormatJSON

	// objects between context checks
	cancelCheckInterval = 1024
)

var errNotArrayOfObjects = stderrors.New("top-level value must be an array of objects")

// Collector implements collectors.Collector for JSON sources
type Collector struct {
	name string
}

// NewCollector creates a new JSON collector
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

// field is one key/value pair of the object being read
type field struct {
	name string
	cell inference.Cell
}

// Infer streams r and folds every object into a schema builder. Columns are
// ordered by first appearance; a column absent from an object gets a missing
// observation, so keys that show up late are nullable.
func Infer(ctx context.Context, r io.Reader) (*inference.Builder, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, stderrors.New("empty input")
		}
		return nil, err
	}
	if d, ok := tok.(gojson.Delim); !ok || d != '[' {
		return nil, errNotArrayOfObjects
	}

	builder := inference.NewBuilder()
	for n := 1; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		d, ok := tok.(gojson.Delim)
		if ok && d == ']' {
			break
		}
		if !ok || d != '{' {
			return nil, fmt.Errorf("element %d: %w", n-1, errNotArrayOfObjects)
		}

		fields, err := readObject(dec)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", n-1, err)
		}
		observe(builder, fields)
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, stderrors.New("unexpected data after top-level array")
	}

	return builder, nil
}

// observe records one object. Known columns the object lacks are missing.
func observe(builder *inference.Builder, fields []field) {
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		builder.Column(f.name).Observe(f.cell)
		present[f.name] = true
	}
	for _, name := range builder.Names() {
		if !present[name] {
			builder.Column(name).ObserveMissing()
		}
	}
}

// readObject consumes the members of an object whose '{' was already read.
// A repeated key keeps its position and takes the last value.
func readObject(dec *gojson.Decoder) ([]field, error) {
	var fields []field
	index := make(map[string]int)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if d, ok := tok.(gojson.Delim); ok && d == '}' {
			return fields, nil
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		cell, err := readCell(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}

		if i, seen := index[name]; seen {
			fields[i].cell = cell
			continue
		}
		index[name] = len(fields)
		fields = append(fields, field{name: name, cell: cell})
	}
}

// readCell maps one value onto a cell. Nested objects and arrays have no
// flat type and fall back to text.
func readCell(dec *gojson.Decoder) (inference.Cell, error) {
	tok, err := dec.Token()
	if err != nil {
		return inference.Cell{}, unexpectedEOF(err)
	}

	switch v := tok.(type) {
	case nil:
		return inference.NullCell(), nil
	case bool:
		return inference.BoolCell(v), nil
	case string:
		return inference.TextCell(v), nil
	case gojson.Number:
		return inference.ClassifyNumber(string(v)), nil
	case float64:
		return inference.FloatCell(v), nil
	case gojson.Delim:
		if v != '{' && v != '[' {
			return inference.Cell{}, fmt.Errorf("unexpected delimiter %v", v)
		}
		if err := skipContainer(dec); err != nil {
			return inference.Cell{}, err
		}
		return inference.TextCell(v.String()), nil
	default:
		return inference.Cell{}, fmt.Errorf("unexpected token %v", tok)
	}
}

// skipContainer consumes tokens up to the close of an open object or array
func skipContainer(dec *gojson.Decoder) error {
	for depth := 1; depth > 0; {
		tok, err := dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		if d, ok := tok.(gojson.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
