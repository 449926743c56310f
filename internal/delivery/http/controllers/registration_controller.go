package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ambassadorhub/internal/delivery/http/helpers"
	"ambassadorhub/internal/delivery/http/middleware"
	"ambassadorhub/internal/domain"
)

// RegisterRequest is the request body for POST /events/{eventID}/registrations.
type RegisterRequest struct {
	SlotIDs []string `json:"slot_ids"`
}

// Validate implements Validator.
func (r RegisterRequest) Validate() []string {
	var errs []string
	if len(r.SlotIDs) == 0 {
		errs = append(errs, "at least one slot_id is required")
	}
	for _, id := range r.SlotIDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, "slot_ids cannot contain empty values")
			break
		}
	}
	return errs
}

// SetRegistrationStatusRequest is the request body for
// PATCH /slots/{slotID}/registrations/{userID}.
type SetRegistrationStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (s SetRegistrationStatusRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Status) == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for event slots
// @Description Registers the authenticated user on one or more slots of an open event in a single step. A user registers at most once per event; repeat attempts are rejected.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body RegisterRequest true "Slot IDs to register for"
// @Success 201 {object} helpers.APIResponse "data contains the created registrations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	registrations, err := c.Service.Register(r.Context(), userID, eventID, req.SlotIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrAlreadyRegistered):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already registered for this event")
		case errors.Is(err, domain.ErrRegistrationsClosed):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registrations closed for this event")
		case errors.Is(err, domain.ErrSlotNotInEvent):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "slot does not belong to event")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "registration failed")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, registrations)
}

// ListByEvent godoc
// @Summary List an event's registrations
// @Description Returns every registration on the event's slots with the slot times and registrant identity.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the registrations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	registrations, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list registrations")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, registrations)
}

// ListOwn godoc
// @Summary List the signed-in user's registrations
// @Description Returns the authenticated user's registrations across all events.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the registrations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [get]
func (c *RegistrationController) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	registrations, err := c.Service.ListOwn(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list registrations")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, registrations)
}

// SetStatus godoc
// @Summary Set a registration's status
// @Description Moves a registration to waiting_list, confirmed, or rejected.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Param userID path string true "Registrant's user ID"
// @Param body body SetRegistrationStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains the updated registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /slots/{slotID}/registrations/{userID} [patch]
func (c *RegistrationController) SetStatus(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	userID := r.PathValue("userID")
	if slotID == "" || userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slotID or userID")
		return
	}
	var req SetRegistrationStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	registration, err := c.Service.SetStatus(r.Context(), userID, slotID, strings.TrimSpace(strings.ToLower(req.Status)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidStatus) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be \"waiting_list\", \"confirmed\", or \"rejected\"")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "status update failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, registration)
}
