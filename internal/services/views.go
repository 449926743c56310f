package services

import (
	"context"
	"log"

	"ambassadorhub/internal/domain"
)

// invalidateViews drops cached views after a committed write. Failures are
// logged and swallowed: the mutation already succeeded and must be reported
// as such.
func invalidateViews(ctx context.Context, v domain.ViewInvalidator, paths ...string) {
	if v == nil {
		return
	}
	for _, path := range paths {
		if err := v.Invalidate(ctx, path); err != nil {
			log.Printf("[VIEWS] invalidation failed for %s: %v", path, err)
		}
	}
}
