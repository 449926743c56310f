package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ambassadorhub/internal/domain"
)

const invalidateTimeout = 2 * time.Second

type redisInvalidator struct {
	client *redis.Client
	prefix string
}

// NewRedisInvalidator returns a ViewInvalidator that drops cached view keys
// ("views:<path>") from redis. Callers treat failures as log-only; a dropped
// cache entry is the only thing at stake.
func NewRedisInvalidator(client *redis.Client) domain.ViewInvalidator {
	return &redisInvalidator{client: client, prefix: "views:"}
}

func (r *redisInvalidator) Invalidate(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, invalidateTimeout)
	defer cancel()
	if err := r.client.Del(ctx, r.prefix+path).Err(); err != nil {
		return fmt.Errorf("invalidate %q: %w", path, err)
	}
	return nil
}

type noopInvalidator struct{}

// NewNoopInvalidator returns a ViewInvalidator that does nothing, for
// deployments without redis.
func NewNoopInvalidator() domain.ViewInvalidator {
	return noopInvalidator{}
}

func (noopInvalidator) Invalidate(ctx context.Context, path string) error { return nil }
