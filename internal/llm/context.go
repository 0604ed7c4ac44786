package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels used in request logs.
const (
	PurposeFeedback    = "interview-feedback"
	PurposeInterviewer = "interviewer-turn"
	PurposeMentor      = "mentor-chat"
	PurposeProbe       = "cli-probe"
)

// WithPurpose tags the context so the logging decorator can attribute the
// request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom reads the purpose tag, defaulting to "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
