package services

import "context"

type contextKey string

const (
	jobIDKey     contextKey = "job_id"
	jobNameKey   contextKey = "job_name"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithJobID annotates context with the queue job identifier.
func WithJobID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the queue job identifier if present.
func JobIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(jobIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithJobName annotates context with the logical job name.
func WithJobName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, jobNameKey, name)
}

// JobNameFromContext returns the logical job name if present.
func JobNameFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jobNameKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
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
