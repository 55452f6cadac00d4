package domain

import "context"

type CtxKey string

const (
	KeyActingUser CtxKey = "ActingUser"
	KeyUserEmail  CtxKey = "Email"
	KeyRequestID  CtxKey = "RequestID"
)

// SystemActor is recorded as the acting user when no request context was
// established (background jobs, migrations, seed scripts).
const SystemActor = "system"

// WithActingUser returns a context carrying userID as the acting user for
// every operation performed within it. Each request gets its own context,
// so identities cannot bleed across concurrently handled requests.
func WithActingUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, KeyActingUser, userID)
}

// ActingUser returns the acting user established on ctx, or SystemActor
// when none was.
func ActingUser(ctx context.Context) string {
	if id, ok := ctx.Value(KeyActingUser).(string); ok && id != "" {
		return id
	}
	return SystemActor
}
