package storage

import (
	"encoding/json"
	"fmt"
)

// Encode serializes v for storage. Account records are small and read by
// both the RPC layer and tests, so JSON is used in place of a binary
// codec — legibility in `pebble` debug dumps and test failures matters
// more here than shaving bytes off small, infrequently-written records.
func Encode(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return b, nil
}

// Decode deserializes b into v.
func Decode(b []byte, v interface{}) error {
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
