package domain

import (
	"context"
	"time"
)

// WhitelistEntry is an email permitted to claim an account on sign-in.
// swagger:model WhitelistEntry
type WhitelistEntry struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// WhitelistRepository defines storage operations for invited emails.
type WhitelistRepository interface {
	Create(ctx context.Context, email string) error
	Exists(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]*WhitelistEntry, error)
}
