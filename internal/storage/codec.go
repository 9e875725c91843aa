package storage

import (
	"bytes"
	stderrors "errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/yairfalse/driftcatch/pkg/types"
)

// Encode renders a snapshot as indented JSON with columns in order
func Encode(snapshot *types.Snapshot) ([]byte, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses snapshot JSON. Errors describe why the content is not a
// snapshot; callers wrap them as corrupt snapshot errors.
func Decode(data []byte) (*types.Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}
	if fields == nil {
		return nil, stderrors.New("not a JSON object")
	}

	snapshot := &types.Snapshot{}

	if raw, ok := fields["source"]; ok {
		s, err := decodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		snapshot.Source = s
	}
	if raw, ok := fields["captured_at"]; ok {
		s, err := decodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("captured_at: %w", err)
		}
		snapshot.CapturedAt = s
	}

	raw, ok := fields["columns"]
	if !ok {
		return nil, stderrors.New("missing columns")
	}
	if err := snapshot.Columns.UnmarshalJSON(raw); err != nil {
		return nil, err
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func decodeString(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", stderrors.New("must be a string")
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", err
	}
	return s, nil
}
