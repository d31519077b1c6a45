package llm

import "context"

// Purpose labels why a request was made. It is recorded with every
// request event and used to group usage in `llm stats`.
type Purpose string

const (
	PurposeSuggestion  Purpose = "suggestion"
	PurposeFieldUpdate Purpose = "field-update"
	PurposeHealthCheck Purpose = "health-check"
	PurposeUnknown     Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose returns a context carrying purpose.
func WithPurpose(ctx context.Context, purpose Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose attached to ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
