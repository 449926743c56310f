package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ambassadorhub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	views          domain.ViewInvalidator
	contextTimeout time.Duration
}

// NewEventService creates the event and slot catalog service.
func NewEventService(eventRepo domain.EventRepository, views domain.ViewInvalidator, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		views:          views,
		contextTimeout: timeout,
	}
}

func buildSlots(in *domain.EventInput) ([]*domain.Slot, error) {
	if len(in.Slots) == 0 {
		return nil, domain.ErrInvalidInput
	}
	slots := make([]*domain.Slot, 0, len(in.Slots))
	for _, s := range in.Slots {
		if !s.EndTime.After(s.StartTime) {
			return nil, domain.ErrInvalidInput
		}
		slots = append(slots, &domain.Slot{StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return slots, nil
}

func (s *eventService) CreateEvent(ctx context.Context, in *domain.EventInput) (*domain.Event, []*domain.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slots, err := buildSlots(in)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	event := domain.NewEvent(in.Title, in.Description, in.Location, in.Date, domain.EventClosed, now, now)
	if err := s.eventRepo.Create(ctx, event, slots); err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewEvents)
	return event, slots, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, []*domain.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, slots, err := s.eventRepo.GetWithSlots(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	return event, slots, nil
}

func (s *eventService) ListEvents(ctx context.Context, status string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var filter *domain.EventStatus
	if status != "" {
		st := domain.EventStatus(status)
		if !st.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter = &st
	}
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, in *domain.EventInput) (*domain.Event, []*domain.Slot, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slots, err := buildSlots(in)
	if err != nil {
		return nil, nil, 0, err
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, 0, domain.ErrNotFound
		}
		return nil, nil, 0, fmt.Errorf("get event: %w", err)
	}
	event.Title = in.Title
	event.Description = in.Description
	event.Date = in.Date
	event.Location = in.Location

	dropped, err := s.eventRepo.Replace(ctx, event, slots)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, 0, domain.ErrNotFound
		}
		return nil, nil, 0, fmt.Errorf("replace event schedule: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewEvents)
	return event, slots, dropped, nil
}

func (s *eventService) SetEventStatus(ctx context.Context, id string, status string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	st := domain.EventStatus(status)
	if !st.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	event, err := s.eventRepo.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewEvents)
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewEvents)
	return nil
}
