package store

import (
	"encoding/json"
	"fmt"
)

// marshalArgs serializes an argument list for the sessions.args column.
// A nil list is stored as "[]" so the column is never NULL.
func marshalArgs(args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs is the inverse of marshalArgs.
func unmarshalArgs(s string) ([]string, error) {
	var args []string
	if err := json.Unmarshal([]byte(s), &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	if args == nil {
		args = []string{}
	}
	return args, nil
}
