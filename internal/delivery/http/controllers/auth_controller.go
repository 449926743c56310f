package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"ambassadorhub/internal/delivery/http/helpers"
	"ambassadorhub/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RequestLoginCodeRequest is the request body for POST /auth/login/request
type RequestLoginCodeRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (l RequestLoginCodeRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(l.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// VerifyLoginCodeRequest is the request body for POST /auth/login/verify
type VerifyLoginCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (v VerifyLoginCodeRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(v.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if strings.TrimSpace(v.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login/verify
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// RequestLoginCode godoc
// @Summary Request a one-time sign-in code
// @Description Sends a short-lived sign-in code to the email if it belongs to an existing account or has been invited by an admin. Uninvited emails are rejected.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RequestLoginCodeRequest true "Email to send the code to"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login/request [post]
func (c *AuthController) RequestLoginCode(w http.ResponseWriter, r *http.Request) {
	var req RequestLoginCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestLoginCode(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrNotInvited) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "email is not invited")
			return
		}
		if strings.Contains(err.Error(), "invalid email") {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "login code request failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "code sent"})
}

// VerifyLoginCode godoc
// @Summary Exchange a sign-in code for a token
// @Description Verifies the one-time code for the email and returns a JWT plus the signed-in user. The first sign-in of an invited email creates its ambassador account.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyLoginCodeRequest true "Email and code"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login/verify [post]
func (c *AuthController) VerifyLoginCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyLoginCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.VerifyLoginCode(r.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrNotInvited) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "email is not invited")
			return
		}
		if strings.Contains(err.Error(), "invalid or expired code") {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid or expired code")
			return
		}
		if strings.Contains(err.Error(), "invalid email") {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "sign-in failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      user,
	})
}
