package services

import "context"

type contextKey string

const (
	clipIDKey    contextKey = "clip_id"
	tierKey      contextKey = "tier"
	requestIDKey contextKey = "request_id"
)

// WithClipID annotates context with the clip identifier.
func WithClipID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, clipIDKey, id)
}

// ClipIDFromContext extracts the clip identifier if present.
func ClipIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(clipIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTier annotates context with the analysis tier name.
func WithTier(ctx context.Context, tier string) context.Context {
	if tier == "" {
		return ctx
	}
	return context.WithValue(ctx, tierKey, tier)
}

// TierFromContext returns the analysis tier name if present.
func TierFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(tierKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
