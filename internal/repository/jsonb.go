package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

// jsonb marshals v for a JSONB parameter, mapping nil maps to empty objects
// so column-level merges never see SQL NULL.
func jsonb(v interface{}) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	if string(raw) == "null" {
		return []byte("{}"), nil
	}
	return raw, nil
}

// mustJSONB is jsonb for values that cannot fail to marshal (struct types
// with no custom marshalers).
func mustJSONB(v interface{}) []byte {
	raw, err := jsonb(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// translate maps driver-level failures onto the engine's error contract so
// callers never see backend-specific sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, op+" timed out")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func unmarshalInto(raw []byte, dest interface{}, what string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return nil
}
