package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// TypedCacheValue converts a cache value to the specified type. In-memory
// caches store live objects, so a direct type assertion suffices; anything
// else is a miss.
func TypedCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}
	if typed, ok := value.(*T); ok {
		return typed, true
	}
	return nil, false
}

// StartCacheSpan creates a new span for a cache operation. Returns nil when
// no sentry hub is bound to the context.
func StartCacheSpan(ctx context.Context, cache, operation string, params map[string]interface{}) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "cache."+cache+"."+operation)
	span.Description = "cache." + cache + "." + operation
	span.Op = "db.cache"
	span.SetData("cache", cache)
	span.SetData("operation", operation)
	for k, v := range params {
		span.SetData(k, v)
	}
	return span
}

// FinishSpan safely finishes a span, handling nil spans.
func FinishSpan(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}
