package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"ambassadorhub/internal/domain"
)

const (
	loginCodeDigits     = 6
	loginCodeExpiryMins = 15
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	loginCodeRegex = regexp.MustCompile(`^\d{6}$`)
)

type authService struct {
	userRepo      domain.UserRepository
	whitelistRepo domain.WhitelistRepository
	loginCodeRepo domain.LoginCodeRepository
	codeHasher    domain.CodeHasher
	tokenIssuer   domain.TokenIssuer
	tokenExpiry   time.Duration
	emailService  domain.EmailService
}

// NewAuthService creates the whitelist-gated passwordless sign-in service.
func NewAuthService(
	userRepo domain.UserRepository,
	whitelistRepo domain.WhitelistRepository,
	loginCodeRepo domain.LoginCodeRepository,
	codeHasher domain.CodeHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
) domain.AuthService {
	return &authService{
		userRepo:      userRepo,
		whitelistRepo: whitelistRepo,
		loginCodeRepo: loginCodeRepo,
		codeHasher:    codeHasher,
		tokenIssuer:   tokenIssuer,
		tokenExpiry:   tokenExpiry,
		emailService:  emailService,
	}
}

// allowed reports whether the email may sign in: it belongs to an existing
// account or has been whitelisted by an admin.
func (s *authService) allowed(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	invited, err := s.whitelistRepo.Exists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check whitelist: %w", err)
	}
	return invited, nil
}

func (s *authService) RequestLoginCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	ok, err := s.allowed(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotInvited
	}
	code, err := generateLoginCode(loginCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	codeHash, err := s.codeHasher.Hash(code)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}
	expiresAt := time.Now().Add(loginCodeExpiryMins * time.Minute)
	if err := s.loginCodeRepo.Create(ctx, email, codeHash, expiresAt); err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}
	if s.emailService != nil {
		data := &domain.LoginCodeEmailData{
			Email:            email,
			Code:             code,
			ExpiresInMinutes: loginCodeExpiryMins,
		}
		if err := s.emailService.SendLoginCode(ctx, data); err != nil {
			return fmt.Errorf("failed to send login code email: %w", err)
		}
	}
	return nil
}

func (s *authService) VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return "", nil, fmt.Errorf("invalid email format")
	}
	code = strings.TrimSpace(code)
	if !loginCodeRegex.MatchString(code) {
		return "", nil, fmt.Errorf("invalid or expired code")
	}
	candidates, err := s.loginCodeRepo.ListActive(ctx, email, time.Now())
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify code: %w", err)
	}
	var matched *domain.LoginCode
	for _, c := range candidates {
		if s.codeHasher.Compare(c.CodeHash, code) == nil {
			matched = c
			break
		}
	}
	if matched == nil {
		return "", nil, fmt.Errorf("invalid or expired code")
	}
	if err := s.loginCodeRepo.MarkUsed(ctx, matched.ID); err != nil {
		return "", nil, fmt.Errorf("failed to consume code: %w", err)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("failed to get user: %w", err)
		}
		// First sign-in of a whitelisted email: claim an ambassador account.
		invited, err := s.whitelistRepo.Exists(ctx, email)
		if err != nil {
			return "", nil, fmt.Errorf("failed to check whitelist: %w", err)
		}
		if !invited {
			return "", nil, domain.ErrNotInvited
		}
		now := time.Now()
		user = domain.NewUser("", email, domain.RoleAmbassador, now, now)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", nil, fmt.Errorf("failed to create user: %w", err)
		}
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

func generateLoginCode(digits int) (string, error) {
	code := make([]byte, digits)
	for i := range code {
		// rand.Int keeps each digit uniform; reducing a raw byte mod 10 would not.
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = '0' + byte(n.Int64())
	}
	return string(code), nil
}
