package logger

import "context"

// Logger defines the interface for structured logging with context support.
// A session ID attached to the context with WithSessionID is recorded on
// every entry logged with that context.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})

	// WithField returns a new logger with the given field added to all subsequent log entries
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with the given fields added to all subsequent log entries
	WithFields(fields map[string]interface{}) Logger
}

// SessionIDField is the field name used for the context session ID.
const SessionIDField = "session_id"

type sessionIDKey struct{}

// WithSessionID returns a context whose log entries carry the session ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext returns the session ID attached by WithSessionID.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok && id != ""
}

// contextFields merges the context session ID into fields without mutating them.
func contextFields(ctx context.Context, fields map[string]interface{}) map[string]interface{} {
	id, ok := SessionIDFromContext(ctx)
	if !ok {
		return fields
	}
	if _, set := fields[SessionIDField]; set {
		return fields
	}
	merged := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged[SessionIDField] = id
	return merged
}
