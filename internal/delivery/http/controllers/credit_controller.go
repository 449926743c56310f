package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ambassadorhub/internal/delivery/http/helpers"
	"ambassadorhub/internal/domain"
)

// AdjustCreditRequest is the request body for POST /users/{userID}/credit.
// Direction "add" grants one credit; "remove" takes one, never below zero.
type AdjustCreditRequest struct {
	Direction string `json:"direction"`
}

// Validate implements Validator.
func (a AdjustCreditRequest) Validate() []string {
	var errs []string
	direction := strings.TrimSpace(strings.ToLower(a.Direction))
	if direction == "" {
		errs = append(errs, "direction is required")
	} else if !domain.CreditDirection(direction).Valid() {
		errs = append(errs, "direction must be \"add\" or \"remove\"")
	}
	return errs
}

type CreditController struct {
	Logger  *slog.Logger
	Service domain.CreditService
}

func NewCreditController(logger *slog.Logger, svc domain.CreditService) *CreditController {
	return &CreditController{
		Logger:  logger,
		Service: svc,
	}
}

// AdjustCredit godoc
// @Summary Adjust an ambassador's credit
// @Description Adds or removes one credit. The balance never goes below zero; removing at zero is a no-op.
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param body body AdjustCreditRequest true "Adjustment direction"
// @Success 200 {object} helpers.APIResponse "data contains the user with the new balance"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/credit [post]
func (c *CreditController) AdjustCredit(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	var req AdjustCreditRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	direction := domain.CreditDirection(strings.TrimSpace(strings.ToLower(req.Direction)))
	user, err := c.Service.Adjust(r.Context(), userID, direction)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "direction must be \"add\" or \"remove\"")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "error during credit adjustment")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// Ranking godoc
// @Summary Ambassador ranking
// @Description Returns ambassadors ordered by credit, highest first. Missing balances count as zero.
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the ranked ambassadors"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /ranking [get]
func (c *CreditController) Ranking(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.Ranking(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load ranking")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}
