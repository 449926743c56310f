package services

import (
	"context"
	"errors"
	"fmt"

	"ambassadorhub/internal/domain"
)

type creditService struct {
	userRepo domain.UserRepository
	views    domain.ViewInvalidator
}

// NewCreditService creates the admin credit ledger service.
func NewCreditService(userRepo domain.UserRepository, views domain.ViewInvalidator) domain.CreditService {
	return &creditService{userRepo: userRepo, views: views}
}

func (s *creditService) Adjust(ctx context.Context, userID string, direction domain.CreditDirection) (*domain.User, error) {
	if !direction.Valid() {
		return nil, domain.ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	delta := 1
	if direction == domain.CreditRemove {
		delta = -1
	}
	newCredit := user.Credit + delta
	// Credit is clamped at zero; removing from zero is a no-op.
	if newCredit < 0 {
		newCredit = 0
	}

	updated, err := s.userRepo.UpdateCredit(ctx, userID, newCredit)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update credit: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewCredits)
	return updated, nil
}

func (s *creditService) Ranking(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.ListAmbassadorsByCredit(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ambassadors: %w", err)
	}
	return users, nil
}
