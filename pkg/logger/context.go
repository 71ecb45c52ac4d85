package logger

import (
	"context"
	"log/slog"
)

// Attribute keys added by the shipped extractors.
const (
	ContextIDKey = "context_id"
	ReferenceKey = "reference"
)

type ctxKey int

const (
	contextIDCtxKey ctxKey = iota
	referenceCtxKey
)

// WithContextID stores the dispatch context ID in ctx.
func WithContextID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextIDCtxKey, id)
}

// ContextID returns the context ID stored in ctx, or "".
func ContextID(ctx context.Context) string {
	id, _ := ctx.Value(contextIDCtxKey).(string)
	return id
}

// WithReference stores the letter reference in ctx.
func WithReference(ctx context.Context, reference string) context.Context {
	return context.WithValue(ctx, referenceCtxKey, reference)
}

// Reference returns the letter reference stored in ctx, or "".
func Reference(ctx context.Context) string {
	ref, _ := ctx.Value(referenceCtxKey).(string)
	return ref
}

// ContextIDExtractor adds context_id to records logged with a context carrying one.
func ContextIDExtractor() ContextExtractor {
	return stringExtractor(ContextIDKey, ContextID)
}

// ReferenceExtractor adds reference to records logged with a context carrying one.
func ReferenceExtractor() ContextExtractor {
	return stringExtractor(ReferenceKey, Reference)
}

func stringExtractor(key string, get func(context.Context) string) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := get(ctx); v != "" {
			return slog.String(key, v), true
		}
		return slog.Attr{}, false
	}
}
