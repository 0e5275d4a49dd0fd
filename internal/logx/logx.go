package logx

import (
	"context"

	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	sessionKey contextKey = iota
	tabKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSession annotates the logger with workspace and config identifiers.
func WithSession(ctx context.Context, key schema.SessionKey) pslog.Logger {
	log := pslog.Ctx(ctx)
	if key == (schema.SessionKey{}) {
		return log
	}
	if current, ok := ctx.Value(sessionKey).(schema.SessionKey); ok && current == key {
		return log
	}
	return log.With("workspace", key.Workspace, "config", key.Config)
}

// WithSessionTab annotates the logger with session and tab identifiers.
func WithSessionTab(ctx context.Context, key schema.SessionKey, tabID schema.TabID) pslog.Logger {
	log := WithSession(ctx, key)
	if tabID == "" {
		return log
	}
	if current, ok := ctx.Value(tabKey).(schema.TabID); ok && current == tabID {
		return log
	}
	return log.With("tab", tabID)
}

// ContextWithSession stores the session marker on the context for log
// de-duplication.
func ContextWithSession(ctx context.Context, key schema.SessionKey) context.Context {
	if ctx == nil || key == (schema.SessionKey{}) {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, key)
}

// ContextWithTab stores the tab marker on the context for log de-duplication.
func ContextWithTab(ctx context.Context, tabID schema.TabID) context.Context {
	if ctx == nil || tabID == "" {
		return ctx
	}
	return context.WithValue(ctx, tabKey, tabID)
}

// ContextWithSessionLogger attaches the logger and session marker to the context.
func ContextWithSessionLogger(ctx context.Context, log pslog.Logger, key schema.SessionKey) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithSession(ctx, key)
}

// CopyContextFields copies session/tab markers from src to dst. Used when a
// background fetch outlives the request context.
func CopyContextFields(dst, src context.Context) context.Context {
	if src == nil {
		return dst
	}
	if key, ok := src.Value(sessionKey).(schema.SessionKey); ok && key != (schema.SessionKey{}) {
		dst = ContextWithSession(dst, key)
	}
	if tabID, ok := src.Value(tabKey).(schema.TabID); ok && tabID != "" {
		dst = ContextWithTab(dst, tabID)
	}
	return dst
}
