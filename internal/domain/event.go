package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by the event catalog and registration workflow.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid status")
)

// EventStatus is the lifecycle state of an event.
// Events are created closed, opened for registration, and eventually completed.
// A completed event may be reopened.
type EventStatus string

const (
	EventClosed    EventStatus = "closed"
	EventOpen      EventStatus = "open"
	EventCompleted EventStatus = "completed"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	return s == EventClosed || s == EventOpen || s == EventCompleted
}

// Event represents an administrator-defined activity with a schedule of slots.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Location    string      `json:"location"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event. ID is set by the repository on create.
func NewEvent(title, description, location string, date time.Time, status EventStatus, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Location:    location,
		Date:        date,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Slot is a bounded time interval within an event that ambassadors register for.
// swagger:model Slot
type Slot struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// EventInput is the validated payload for creating or replacing an event.
// Slot times are full timestamps composed from the event date and a time of day.
type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Slots       []SlotInput
}

// SlotInput is one requested time interval for an event.
type SlotInput struct {
	StartTime time.Time
	EndTime   time.Time
}

// EventRepository defines the interface for event and slot storage.
// Create and Replace write the event and its slots as one transaction.
type EventRepository interface {
	Create(ctx context.Context, event *Event, slots []*Slot) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetWithSlots(ctx context.Context, id string) (*Event, []*Slot, error)
	List(ctx context.Context, status *EventStatus) ([]*Event, error)
	// Replace updates the event fields and swaps the full slot set, removing
	// every registration attached to the previous slots. It returns the number
	// of registrations dropped so callers can surface the loss.
	Replace(ctx context.Context, event *Event, slots []*Slot) (dropped int, err error)
	UpdateStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for the event and slot catalog.
type EventService interface {
	CreateEvent(ctx context.Context, in *EventInput) (*Event, []*Slot, error)
	GetEvent(ctx context.Context, id string) (*Event, []*Slot, error)
	ListEvents(ctx context.Context, status string) ([]*Event, error)
	UpdateEvent(ctx context.Context, id string, in *EventInput) (*Event, []*Slot, int, error)
	SetEventStatus(ctx context.Context, id string, status string) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
