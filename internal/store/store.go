package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a string key/value store. A successful Set is visible to every
// later Get.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Close() error
}

// GetJSON decodes the JSON value stored under key into dst. It reports
// whether the key was present.
func GetJSON(ctx context.Context, st Store, key string, dst any) (bool, error) {
	raw, ok, err := st.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, st Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return st.Set(ctx, key, string(raw))
}
