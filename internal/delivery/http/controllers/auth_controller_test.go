package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"ambassadorhub/internal/delivery/http/helpers"
	"ambassadorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	requestErr error
	lastEmail  string

	verifyToken string
	verifyUser  *domain.User
	verifyErr   error
}

func (f *fakeAuthService) RequestLoginCode(_ context.Context, email string) error {
	f.lastEmail = email
	return f.requestErr
}

func (f *fakeAuthService) VerifyLoginCode(_ context.Context, email, _ string) (string, *domain.User, error) {
	f.lastEmail = email
	if f.verifyErr != nil {
		return "", nil, f.verifyErr
	}
	return f.verifyToken, f.verifyUser, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAuthController_RequestLoginCode(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		serviceErr   error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       `{"email":"alice@next-u.fr"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:         "missing email",
			body:         `{}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "malformed email",
			body:         `{"email":"nope"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "not invited",
			body:         `{"email":"stranger@next-u.fr"}`,
			serviceErr:   domain.ErrNotInvited,
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
		},
		{
			name:         "service error",
			body:         `{"email":"alice@next-u.fr"}`,
			serviceErr:   assert.AnError,
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{requestErr: tt.serviceErr}
			ctrl := NewAuthController(testLogger(), fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/auth/login/request", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.RequestLoginCode(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				if tt.wantBodyCode == helpers.ErrCodeInternalError {
					assert.Equal(t, "login code request failed", envelope.Error.Message)
				}
			} else {
				assert.Nil(t, envelope.Error)
			}
		})
	}
}

func TestAuthController_VerifyLoginCode(t *testing.T) {
	t.Run("success returns token and user", func(t *testing.T) {
		fake := &fakeAuthService{
			verifyToken: "jwt-token",
			verifyUser:  &domain.User{ID: "user-1", Email: "alice@next-u.fr", Role: domain.RoleAmbassador},
		}
		ctrl := NewAuthController(testLogger(), fake)

		body := `{"email":"alice@next-u.fr","code":"123456"}`
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/login/verify", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		ctrl.VerifyLoginCode(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var envelope struct {
			Data  LoginResponse     `json:"data"`
			Error *helpers.APIError `json:"error"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		assert.Equal(t, "jwt-token", envelope.Data.Token)
		assert.Equal(t, "Bearer", envelope.Data.TokenType)
		require.NotNil(t, envelope.Data.User)
		assert.Equal(t, "user-1", envelope.Data.User.ID)
	})

	t.Run("wrong code", func(t *testing.T) {
		fake := &fakeAuthService{verifyErr: errors.New("invalid or expired code")}
		ctrl := NewAuthController(testLogger(), fake)

		body := `{"email":"alice@next-u.fr","code":"000000"}`
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/login/verify", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		ctrl.VerifyLoginCode(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing code", func(t *testing.T) {
		ctrl := NewAuthController(testLogger(), &fakeAuthService{})

		body := `{"email":"alice@next-u.fr"}`
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/login/verify", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		ctrl.VerifyLoginCode(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not invited", func(t *testing.T) {
		fake := &fakeAuthService{verifyErr: domain.ErrNotInvited}
		ctrl := NewAuthController(testLogger(), fake)

		body := `{"email":"stranger@next-u.fr","code":"123456"}`
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/login/verify", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		ctrl.VerifyLoginCode(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}
