package types

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// MarshalJSON writes the columns as a JSON object in insertion order
func (c Columns) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of column schemas, keeping document order.
// Both "type" and "nullable" are required; duplicate names are rejected.
func (c *Columns) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{', "columns must be an object"); err != nil {
		return err
	}

	columns := NewColumns()
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("columns: %w", unexpectedEOF(err))
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			break
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("columns: expected column name, got %v", tok)
		}

		schema, err := decodeColumnSchema(dec, name)
		if err != nil {
			return err
		}
		if err := columns.Add(name, schema); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != io.EOF {
		return errors.New("columns: unexpected data after object")
	}

	*c = columns
	return nil
}

func decodeColumnSchema(dec *json.Decoder, name string) (ColumnSchema, error) {
	if err := expectDelim(dec, '{', fmt.Sprintf("column %q must be an object", name)); err != nil {
		return ColumnSchema{}, err
	}

	var schema ColumnSchema
	var sawType, sawNullable bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return ColumnSchema{}, fmt.Errorf("column %q: %w", name, unexpectedEOF(err))
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			break
		}
		field, ok := tok.(string)
		if !ok {
			return ColumnSchema{}, fmt.Errorf("column %q: expected field name, got %v", name, tok)
		}

		value, err := dec.Token()
		if err != nil {
			return ColumnSchema{}, fmt.Errorf("column %q: %w", name, unexpectedEOF(err))
		}

		switch field {
		case "type":
			s, ok := value.(string)
			if !ok {
				return ColumnSchema{}, fmt.Errorf("column %q: type must be a string", name)
			}
			ct, err := ParseColumnType(s)
			if err != nil {
				return ColumnSchema{}, fmt.Errorf("column %q: %w", name, err)
			}
			schema.Type = ct
			sawType = true
		case "nullable":
			b, ok := value.(bool)
			if !ok {
				return ColumnSchema{}, fmt.Errorf("column %q: nullable must be a boolean", name)
			}
			schema.Nullable = b
			sawNullable = true
		default:
			if err := skipValue(dec, value); err != nil {
				return ColumnSchema{}, fmt.Errorf("column %q: %w", name, err)
			}
		}
	}

	if !sawType {
		return ColumnSchema{}, fmt.Errorf("column %q: missing type", name)
	}
	if !sawNullable {
		return ColumnSchema{}, fmt.Errorf("column %q: missing nullable", name)
	}
	return schema, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, msg string) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, unexpectedEOF(err))
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.New(msg)
	}
	return nil
}

// skipValue consumes the rest of a value whose first token was already read
func skipValue(dec *json.Decoder, first json.Token) error {
	d, ok := first.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		if d, ok := tok.(json.Delim); ok {
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
