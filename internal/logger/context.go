package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for one engine
// operation: which caller, which operation, and when it started.
type LogContext struct {
	Operation string // add/delete/update/get/list
	Username  string
	Groupname string
	UID       uint32
	GID       uint32
	StartTime time.Time
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for an operation starting now.
func NewLogContext(operation string) *LogContext {
	return &LogContext{
		Operation: operation,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithSubject returns a copy with the acting username/uid set.
func (lc *LogContext) WithSubject(username string, uid uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Username = username
		clone.UID = uid
	}
	return clone
}

// WithGroup returns a copy with the acting groupname/gid set.
func (lc *LogContext) WithGroup(groupname string, gid uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Groupname = groupname
		clone.GID = gid
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
