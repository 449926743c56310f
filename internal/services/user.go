package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ambassadorhub/internal/domain"
)

type userService struct {
	userRepo      domain.UserRepository
	whitelistRepo domain.WhitelistRepository
	emailService  domain.EmailService
	views         domain.ViewInvalidator
	allowedDomain string
}

// NewUserService creates the user and whitelist directory service.
// allowedDomain, when non-empty, restricts invite and update emails to that
// domain (e.g. "next-u.fr").
func NewUserService(
	userRepo domain.UserRepository,
	whitelistRepo domain.WhitelistRepository,
	emailService domain.EmailService,
	views domain.ViewInvalidator,
	allowedDomain string,
) domain.UserService {
	return &userService{
		userRepo:      userRepo,
		whitelistRepo: whitelistRepo,
		emailService:  emailService,
		views:         views,
		allowedDomain: allowedDomain,
	}
}

func (s *userService) checkEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if s.allowedDomain != "" && !strings.HasSuffix(email, "@"+s.allowedDomain) {
		return fmt.Errorf("email must belong to the %s domain", s.allowedDomain)
	}
	return nil
}

func (s *userService) Invite(ctx context.Context, name, email string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	invited, err := s.whitelistRepo.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check whitelist: %w", err)
	}
	if invited {
		return nil, domain.ErrDuplicateEmail
	}
	if err := s.whitelistRepo.Create(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to create whitelist entry: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(name, email, role, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Roll back the whitelist entry so a failed invite leaves no trace.
		if derr := s.whitelistRepo.Delete(ctx, email); derr != nil && !errors.Is(derr, domain.ErrNotFound) {
			log.Printf("[USERS] whitelist rollback for %s failed: %v", email, derr)
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Best-effort: a failed email never undoes the invite.
	if s.emailService != nil {
		data := &domain.InvitationEmailData{Email: email, Name: name, InviterName: "The admin team"}
		if err := s.emailService.SendInvitation(ctx, data); err != nil {
			log.Printf("[EMAIL] invitation to %s failed: %v", email, err)
		}
	}
	invalidateViews(ctx, s.views, domain.ViewUsers)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.User, int, error) {
	users, total, err := s.userRepo.List(ctx, strings.TrimSpace(search), params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id, name, email string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// The duplicate check only runs when the email actually changes.
	if email != existing.Email {
		other, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrDuplicateEmail
		}
	}

	user, err := s.userRepo.Update(ctx, id, name, email, role)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewUsers)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	// Drop the matching whitelist entry so the email cannot re-claim an
	// account. Skipped when the account never had an email.
	if existing.Email != "" {
		if err := s.whitelistRepo.Delete(ctx, existing.Email); err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Printf("[USERS] whitelist cleanup for %s failed: %v", existing.Email, err)
		}
	}
	invalidateViews(ctx, s.views, domain.ViewUsers)
	return nil
}

func (s *userService) ListInvited(ctx context.Context) ([]*domain.WhitelistEntry, error) {
	entries, err := s.whitelistRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list whitelist entries: %w", err)
	}
	return entries, nil
}

func (s *userService) DeleteInvited(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.whitelistRepo.Delete(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete whitelist entry: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewUsers)
	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, p *domain.ProfileUpdate) (*domain.User, error) {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Name = &trimmed
	}
	user, err := s.userRepo.UpdateProfile(ctx, userID, p)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	invalidateViews(ctx, s.views, domain.ViewProfile)
	return user, nil
}
