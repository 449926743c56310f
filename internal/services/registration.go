package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ambassadorhub/internal/domain"
)

type registrationService struct {
	registrationRepo domain.RegistrationRepository
	eventRepo        domain.EventRepository
	views            domain.ViewInvalidator
}

// NewRegistrationService creates the event registration workflow service.
func NewRegistrationService(registrationRepo domain.RegistrationRepository, eventRepo domain.EventRepository, views domain.ViewInvalidator) domain.RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		views:            views,
	}
}

func (s *registrationService) Register(ctx context.Context, userID, eventID string, slotIDs []string) ([]*domain.Registration, error) {
	if len(slotIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	event, slots, err := s.eventRepo.GetWithSlots(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.EventOpen {
		return nil, domain.ErrRegistrationsClosed
	}

	valid := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		valid[slot.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		if _, ok := valid[id]; !ok {
			return nil, domain.ErrSlotNotInEvent
		}
		if _, dup := seen[id]; dup {
			return nil, domain.ErrInvalidInput
		}
		seen[id] = struct{}{}
	}

	// The one-registration-per-event invariant is enforced by the unique
	// guard row inside CreateForEvent, not by a pre-check here, so two
	// concurrent requests cannot both slip through.
	regs, err := s.registrationRepo.CreateForEvent(ctx, userID, eventID, slotIDs, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registrations: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewEvents)
	return regs, nil
}

func (s *registrationService) SetStatus(ctx context.Context, userID, slotID string, status string) (*domain.Registration, error) {
	st := domain.RegistrationStatus(status)
	if !st.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	reg, err := s.registrationRepo.UpdateStatus(ctx, userID, slotID, st)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update registration status: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewEvents)
	return reg, nil
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID string) ([]*domain.RegistrationDetail, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	details, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return details, nil
}

func (s *registrationService) ListOwn(ctx context.Context, userID string) ([]*domain.Registration, error) {
	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}
