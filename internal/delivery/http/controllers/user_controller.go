package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"ambassadorhub/internal/delivery/http/helpers"
	"ambassadorhub/internal/delivery/http/middleware"
	"ambassadorhub/internal/domain"
)

// InviteUserRequest is the request body for POST /users. The email is
// whitelisted and an account is created in one step.
type InviteUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"` // optional: "admin" or "ambassador" (defaults to "ambassador")
}

// Validate implements Validator.
func (i InviteUserRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(i.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	role := strings.TrimSpace(strings.ToLower(i.Role))
	if role != "" && !domain.Role(role).Valid() {
		errs = append(errs, "role must be \"admin\" or \"ambassador\"")
	}
	return errs
}

// UpdateUserRequest is the request body for PATCH /users/{userID}.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validate implements Validator.
func (u UpdateUserRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(strings.ToLower(u.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if !domain.Role(strings.TrimSpace(strings.ToLower(u.Role))).Valid() {
		errs = append(errs, "role must be \"admin\" or \"ambassador\"")
	}
	return errs
}

// UpdateProfileRequest is the request body for PATCH /users/me. All fields are
// optional; a missing field is unchanged, an empty string clears the value.
// promo_year accepts a year as text (for example "2026") or "" to clear.
type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	School         *string `json:"school"`
	PromoYear      *string `json:"promo_year"`
	Instagram      *string `json:"instagram"`
	Phone          *string `json:"phone"`
	FavoriteMoment *string `json:"favorite_moment"`
}

// Validate implements Validator.
func (u UpdateProfileRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.PromoYear != nil && strings.TrimSpace(*u.PromoYear) != "" {
		y, err := strconv.Atoi(strings.TrimSpace(*u.PromoYear))
		if err != nil || y < 1900 || y > 2999 {
			errs = append(errs, "promo_year must be a four-digit year")
		}
	}
	return errs
}

// toProfileUpdate converts the request into the domain update payload.
// A cleared promo_year becomes zero, which the storage layer writes as NULL.
func (u UpdateProfileRequest) toProfileUpdate() *domain.ProfileUpdate {
	p := &domain.ProfileUpdate{
		Name:           u.Name,
		Description:    u.Description,
		School:         u.School,
		Instagram:      u.Instagram,
		Phone:          u.Phone,
		FavoriteMoment: u.FavoriteMoment,
	}
	if u.PromoYear != nil {
		year := 0
		if s := strings.TrimSpace(*u.PromoYear); s != "" {
			year, _ = strconv.Atoi(s)
		}
		p.PromoYear = &year
	}
	return p
}

// ListUsersResponse is the response body for GET /users.
type ListUsersResponse struct {
	Users []*domain.User         `json:"users"`
	Meta  helpers.PaginationMeta `json:"meta"`
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// Invite godoc
// @Summary Invite a user
// @Description Whitelists the email, creates the account with zero credit, and sends an invitation email. Role defaults to "ambassador".
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InviteUserRequest true "Invitation data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [post]
func (c *UserController) Invite(w http.ResponseWriter, r *http.Request) {
	var req InviteUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	role := domain.Role(strings.TrimSpace(strings.ToLower(req.Role)))
	if role == "" {
		role = domain.RoleAmbassador
	}
	user, err := c.Service.Invite(r.Context(), strings.TrimSpace(req.Name), email, role)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already used")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) || strings.Contains(err.Error(), "invalid email") || strings.Contains(err.Error(), "must belong to") {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "invitation failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// ListUsers godoc
// @Summary List users
// @Description Returns users ordered by creation date with pagination. Optional search filters by name or email.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Filter by name or email (case-insensitive)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains users and meta"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	users, total, err := c.Service.ListUsers(r.Context(), search, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list users")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListUsersResponse{
		Users: users,
		Meta:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// UpdateUser godoc
// @Summary Update a user
// @Description Updates a user's name, email, and role. Changing the email to one already in use is rejected.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param body body UpdateUserRequest true "Updated fields"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [patch]
func (c *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	role := domain.Role(strings.TrimSpace(strings.ToLower(req.Role)))
	user, err := c.Service.UpdateUser(r.Context(), userID, strings.TrimSpace(req.Name), email, role)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already used")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) || strings.Contains(err.Error(), "invalid email") || strings.Contains(err.Error(), "must belong to") {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "user update failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Deletes the account, its registrations, and its whitelist entry.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [delete]
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	if err := c.Service.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "user deletion failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// ListInvitations godoc
// @Summary List invitations
// @Description Returns every whitelisted email, newest first.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the whitelist entries"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations [get]
func (c *UserController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	entries, err := c.Service.ListInvited(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list invitations")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}

// DeleteInvitation godoc
// @Summary Revoke an invitation
// @Description Removes a whitelist entry so the email can no longer sign in. Existing accounts are not affected.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Invited email"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{email} [delete]
func (c *UserController) DeleteInvitation(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(r.PathValue("email")))
	if email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing email")
		return
	}
	if err := c.Service.DeleteInvited(r.Context(), email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "invitation deletion failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "invitation deleted"})
}

// GetMe godoc
// @Summary Get the signed-in user
// @Description Returns the account and profile of the authenticated user.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load user")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the signed-in user's profile
// @Description Updates profile fields of the authenticated user. Omitted fields are unchanged; an empty string clears a field.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateProfile(r.Context(), userID, req.toProfileUpdate())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "profile update failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
