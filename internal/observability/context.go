package observability

import (
	"context"
	"time"
)

type requestIDKey struct{}
type requestStartTimeKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func WithRequestStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestStartTimeKey{}, t)
}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// Elapsed reports the time since the request started, if known.
func Elapsed(ctx context.Context) (time.Duration, bool) {
	v, ok := ctx.Value(requestStartTimeKey{}).(time.Time)
	if !ok {
		return 0, false
	}

	return time.Since(v), true

}
