package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for the registration workflow.
var (
	ErrAlreadyRegistered   = errors.New("already registered for this event")
	ErrSlotNotInEvent      = errors.New("slot does not belong to event")
	ErrRegistrationsClosed = errors.New("registrations closed for this event")
)

// RegistrationStatus is the admin-controlled state of a slot registration.
type RegistrationStatus string

const (
	RegistrationWaiting   RegistrationStatus = "waiting_list"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationRejected  RegistrationStatus = "rejected"
)

// Valid reports whether s is a known registration status.
func (s RegistrationStatus) Valid() bool {
	return s == RegistrationWaiting || s == RegistrationConfirmed || s == RegistrationRejected
}

// Registration is an ambassador's request to attend one slot, identified by
// the (UserID, SlotID) pair. A user holds at most one registration set per
// event; the storage layer enforces that with a per-event guard row.
// swagger:model Registration
type Registration struct {
	UserID    string             `json:"user_id"`
	SlotID    string             `json:"slot_id"`
	Status    RegistrationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// RegistrationDetail is a registration joined with its slot and account,
// as shown on the admin event page.
// swagger:model RegistrationDetail
type RegistrationDetail struct {
	Registration
	SlotStartTime time.Time `json:"slot_start_time"`
	SlotEndTime   time.Time `json:"slot_end_time"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// CreateForEvent inserts the per-event guard row and one registration per
	// slot in a single transaction. A guard conflict returns
	// ErrAlreadyRegistered and writes nothing.
	CreateForEvent(ctx context.Context, userID, eventID string, slotIDs []string, createdAt time.Time) ([]*Registration, error)
	UpdateStatus(ctx context.Context, userID, slotID string, status RegistrationStatus) (*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*RegistrationDetail, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
}

// RegistrationService defines the registration workflow.
type RegistrationService interface {
	Register(ctx context.Context, userID, eventID string, slotIDs []string) ([]*Registration, error)
	SetStatus(ctx context.Context, userID, slotID string, status string) (*Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]*RegistrationDetail, error)
	ListOwn(ctx context.Context, userID string) ([]*Registration, error)
}
