package port

import "context"

type triggerKey struct{}

// WithTrigger marks the context with the source that initiated a run,
// e.g. "manual" for API triggers. Runs default to "scheduler".
func WithTrigger(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, triggerKey{}, source)
}

// TriggerFrom reads the run trigger source from the context.
func TriggerFrom(ctx context.Context) string {
	if s, ok := ctx.Value(triggerKey{}).(string); ok && s != "" {
		return s
	}
	return "scheduler"
}
