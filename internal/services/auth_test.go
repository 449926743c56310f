package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambassadorhub/internal/domain"
)

func newAuthFixture() (*fakeUserRepo, *fakeWhitelistRepo, *fakeLoginCodeRepo, *fakeEmailService, domain.AuthService) {
	userRepo := newFakeUserRepo()
	whitelistRepo := newFakeWhitelistRepo()
	loginCodeRepo := &fakeLoginCodeRepo{}
	emails := &fakeEmailService{}
	svc := NewAuthService(userRepo, whitelistRepo, loginCodeRepo, fakeCodeHasher{}, &fakeTokenIssuer{}, time.Hour, emails)
	return userRepo, whitelistRepo, loginCodeRepo, emails, svc
}

func TestAuthService_RequestLoginCode(t *testing.T) {
	ctx := context.Background()

	t.Run("uninvited email is rejected", func(t *testing.T) {
		_, _, loginCodeRepo, emails, svc := newAuthFixture()

		err := svc.RequestLoginCode(ctx, "stranger@next-u.fr")
		require.ErrorIs(t, err, domain.ErrNotInvited)
		assert.Empty(t, loginCodeRepo.codes)
		assert.Empty(t, emails.loginCodes)
	})

	t.Run("whitelisted email gets a hashed code and an email", func(t *testing.T) {
		_, whitelistRepo, loginCodeRepo, emails, svc := newAuthFixture()
		whitelistRepo.emails["alice@next-u.fr"] = true

		require.NoError(t, svc.RequestLoginCode(ctx, "Alice@NEXT-U.fr"))

		require.Len(t, loginCodeRepo.codes, 1)
		stored := loginCodeRepo.codes[0]
		assert.Equal(t, "alice@next-u.fr", stored.Email)
		assert.True(t, stored.ExpiresAt.After(time.Now()))

		require.Len(t, emails.loginCodes, 1)
		sent := emails.loginCodes[0]
		assert.Equal(t, "alice@next-u.fr", sent.Email)
		assert.Regexp(t, `^\d{6}$`, sent.Code)
		// Only the hash is persisted.
		assert.Equal(t, "hash-"+sent.Code, stored.CodeHash)
	})

	t.Run("existing account is allowed without a whitelist entry", func(t *testing.T) {
		userRepo, _, loginCodeRepo, _, svc := newAuthFixture()
		userRepo.add(&domain.User{ID: "user-1", Email: "bob@next-u.fr", Role: domain.RoleAdmin})

		require.NoError(t, svc.RequestLoginCode(ctx, "bob@next-u.fr"))
		assert.Len(t, loginCodeRepo.codes, 1)
	})

	t.Run("invalid email format", func(t *testing.T) {
		_, _, _, _, svc := newAuthFixture()
		require.Error(t, svc.RequestLoginCode(ctx, "not-an-email"))
	})
}

func TestAuthService_VerifyLoginCode(t *testing.T) {
	ctx := context.Background()

	t.Run("valid code returns token and user, and consumes the code", func(t *testing.T) {
		userRepo, _, loginCodeRepo, _, svc := newAuthFixture()
		userRepo.add(&domain.User{ID: "user-1", Email: "alice@next-u.fr", Role: domain.RoleAmbassador})
		require.NoError(t, loginCodeRepo.Create(ctx, "alice@next-u.fr", "hash-123456", time.Now().Add(10*time.Minute)))

		token, user, err := svc.VerifyLoginCode(ctx, "alice@next-u.fr", "123456")
		require.NoError(t, err)
		assert.Equal(t, "token-user-1", token)
		assert.Equal(t, "user-1", user.ID)
		assert.Len(t, loginCodeRepo.used, 1)
	})

	t.Run("wrong code", func(t *testing.T) {
		userRepo, _, loginCodeRepo, _, svc := newAuthFixture()
		userRepo.add(&domain.User{ID: "user-1", Email: "alice@next-u.fr"})
		require.NoError(t, loginCodeRepo.Create(ctx, "alice@next-u.fr", "hash-123456", time.Now().Add(10*time.Minute)))

		_, _, err := svc.VerifyLoginCode(ctx, "alice@next-u.fr", "654321")
		require.ErrorContains(t, err, "invalid or expired code")
		assert.Empty(t, loginCodeRepo.used)
	})

	t.Run("expired code", func(t *testing.T) {
		userRepo, _, loginCodeRepo, _, svc := newAuthFixture()
		userRepo.add(&domain.User{ID: "user-1", Email: "alice@next-u.fr"})
		require.NoError(t, loginCodeRepo.Create(ctx, "alice@next-u.fr", "hash-123456", time.Now().Add(-time.Minute)))

		_, _, err := svc.VerifyLoginCode(ctx, "alice@next-u.fr", "123456")
		require.ErrorContains(t, err, "invalid or expired code")
	})

	t.Run("used code cannot be replayed", func(t *testing.T) {
		userRepo, _, loginCodeRepo, _, svc := newAuthFixture()
		userRepo.add(&domain.User{ID: "user-1", Email: "alice@next-u.fr"})
		require.NoError(t, loginCodeRepo.Create(ctx, "alice@next-u.fr", "hash-123456", time.Now().Add(10*time.Minute)))

		_, _, err := svc.VerifyLoginCode(ctx, "alice@next-u.fr", "123456")
		require.NoError(t, err)
		_, _, err = svc.VerifyLoginCode(ctx, "alice@next-u.fr", "123456")
		require.ErrorContains(t, err, "invalid or expired code")
	})

	t.Run("first sign-in of an invited email creates an ambassador account", func(t *testing.T) {
		userRepo, whitelistRepo, loginCodeRepo, _, svc := newAuthFixture()
		whitelistRepo.emails["new@next-u.fr"] = true
		require.NoError(t, loginCodeRepo.Create(ctx, "new@next-u.fr", "hash-111111", time.Now().Add(10*time.Minute)))

		token, user, err := svc.VerifyLoginCode(ctx, "new@next-u.fr", "111111")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, domain.RoleAmbassador, user.Role)
		assert.Equal(t, "new@next-u.fr", user.Email)

		stored, err := userRepo.GetByEmail(ctx, "new@next-u.fr")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("malformed code shape is rejected without repo access", func(t *testing.T) {
		_, _, _, _, svc := newAuthFixture()
		_, _, err := svc.VerifyLoginCode(ctx, "alice@next-u.fr", "12")
		require.ErrorContains(t, err, "invalid or expired code")
	})
}

func TestGenerateLoginCode(t *testing.T) {
	t.Run("fixed length, digits only", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			code, err := generateLoginCode(loginCodeDigits)
			require.NoError(t, err)
			assert.Regexp(t, `^\d{6}$`, code)
		}
	})

	t.Run("every digit occurs", func(t *testing.T) {
		seen := make(map[byte]int)
		for i := 0; i < 1000; i++ {
			code, err := generateLoginCode(loginCodeDigits)
			require.NoError(t, err)
			for j := 0; j < len(code); j++ {
				seen[code[j]]++
			}
		}
		for d := byte('0'); d <= '9'; d++ {
			assert.Positive(t, seen[d], "digit %c never generated", d)
		}
	})
}
