package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user and whitelist operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already used")
	ErrNotInvited     = errors.New("email is not invited")
)

// Role is an application role. Every account holds exactly one.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAmbassador Role = "ambassador"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAmbassador
}

// User represents an account: an administrator or an ambassador.
// Credit is the ambassador reward balance; it is never negative.
// swagger:model User
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Credit         int       `json:"credit"`
	Description    *string   `json:"description"`
	School         *string   `json:"school"`
	PromoYear      *int      `json:"promo_year"`
	Instagram      *string   `json:"instagram"`
	Phone          *string   `json:"phone"`
	FavoriteMoment *string   `json:"favorite_moment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given identity fields. ID is set by the
// repository on create.
func NewUser(name, email string, role Role, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ProfileUpdate carries the ambassador self-service profile fields.
// A nil pointer leaves the field unchanged; an empty string (or a zero
// promo year) clears the stored value.
type ProfileUpdate struct {
	Name           *string
	Description    *string
	School         *string
	PromoYear      *int
	Instagram      *string
	Phone          *string
	FavoriteMoment *string
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and role.
type TokenVerifier interface {
	Verify(token string) (userID string, role Role, err error)
}

// CodeHasher hashes one-time login codes for storage and compares candidates.
type CodeHasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) error
}

// UserRepository defines the interface for account storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id, name, email string, role Role) (*User, error)
	UpdateProfile(ctx context.Context, id string, p *ProfileUpdate) (*User, error)
	UpdateCredit(ctx context.Context, id string, credit int) (*User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string, params PaginationParams) ([]*User, int, error)
	ListAmbassadorsByCredit(ctx context.Context) ([]*User, error)
}

// LoginCode is a stored one-time sign-in code. Only the hash is persisted.
type LoginCode struct {
	ID        string
	Email     string
	CodeHash  string
	ExpiresAt time.Time
}

// LoginCodeRepository defines the interface for one-time login code storage.
type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	ListActive(ctx context.Context, email string, now time.Time) ([]*LoginCode, error)
	MarkUsed(ctx context.Context, id string) error
}

// UserService defines the business logic for the user and whitelist directory.
type UserService interface {
	Invite(ctx context.Context, name, email string, role Role) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, search string, params PaginationParams) ([]*User, int, error)
	UpdateUser(ctx context.Context, id, name, email string, role Role) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	ListInvited(ctx context.Context) ([]*WhitelistEntry, error)
	DeleteInvited(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, userID string, p *ProfileUpdate) (*User, error)
}

// AuthService defines the passwordless, whitelist-gated sign-in flow.
type AuthService interface {
	RequestLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (token string, user *User, err error)
}

// CreditService defines the admin credit ledger and the derived ranking.
type CreditService interface {
	Adjust(ctx context.Context, userID string, direction CreditDirection) (*User, error)
	Ranking(ctx context.Context) ([]*User, error)
}

// CreditDirection is the unit credit adjustment requested by an admin.
type CreditDirection string

const (
	CreditAdd    CreditDirection = "add"
	CreditRemove CreditDirection = "remove"
)

// Valid reports whether d is a known direction.
func (d CreditDirection) Valid() bool {
	return d == CreditAdd || d == CreditRemove
}
