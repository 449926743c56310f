package domain

import "context"

// View path keys passed to the invalidator after successful mutations.
const (
	ViewUsers   = "admin/users"
	ViewEvents  = "admin/events"
	ViewCredits = "admin/credits"
	ViewProfile = "user/profile"
)

// ViewInvalidator drops cached read-side views after a mutation commits.
// Invalidation is best-effort: callers log failures and never report them
// as command errors, since the write itself has already committed.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}
