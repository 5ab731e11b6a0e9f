package types

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type ContextKey string

const (
	CtxRunID ContextKey = "ctx_run_id"
)

// SetRunID returns a context carrying the report run id.
func SetRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, CtxRunID, runID)
}

// GetRunID returns the report run id from the context, or "" if absent.
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxRunID).(string); ok {
		return id
	}
	return ""
}

// GenerateRunID returns a new lexicographically sortable run id.
func GenerateRunID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
