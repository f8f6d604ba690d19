package llm

import "context"

type contextKey string

const (
	purposeKey  contextKey = "llm_purpose"
	documentKey contextKey = "llm_document"
)

// WithPurpose labels requests made with ctx, e.g. "quiz-extraction".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithDocument records the name of the document a request was built from.
func WithDocument(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, documentKey, name)
}

// DocumentFrom returns the document name, or "" when none was set.
func DocumentFrom(ctx context.Context) string {
	v, _ := ctx.Value(documentKey).(string)
	return v
}
