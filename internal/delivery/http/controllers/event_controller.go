package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ambassadorhub/internal/delivery/http/helpers"
	"ambassadorhub/internal/domain"
)

const (
	eventDateLayout = "2006-01-02"
	slotTimeLayout  = "15:04"
)

// SlotRequest is one time interval in an event payload. Times are the time of
// day on the event date, formatted "15:04".
type SlotRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// EventRequest is the request body for POST /events and PUT /events/{eventID}.
// An update replaces the full slot set; registrations on removed slots are
// dropped and their count is returned.
type EventRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        string        `json:"date"` // "2006-01-02"
	Location    string        `json:"location"`
	Slots       []SlotRequest `json:"slots"`
}

// Validate implements Validator.
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if e.Date == "" {
		errs = append(errs, "date is required")
	} else if _, err := time.Parse(eventDateLayout, e.Date); err != nil {
		errs = append(errs, "date must use the YYYY-MM-DD format")
	}
	if len(e.Slots) == 0 {
		errs = append(errs, "at least one slot is required")
	}
	for _, s := range e.Slots {
		start, err := time.Parse(slotTimeLayout, s.StartTime)
		if err != nil {
			errs = append(errs, "slot start_time must use the HH:MM format")
			continue
		}
		end, err := time.Parse(slotTimeLayout, s.EndTime)
		if err != nil {
			errs = append(errs, "slot end_time must use the HH:MM format")
			continue
		}
		if !end.After(start) {
			errs = append(errs, "slot end_time must be after start_time")
		}
	}
	return errs
}

// toEventInput composes the event date with each slot's time of day into full
// timestamps. Validate must have passed before calling.
func (e EventRequest) toEventInput() *domain.EventInput {
	date, _ := time.Parse(eventDateLayout, e.Date)
	in := &domain.EventInput{
		Title:       strings.TrimSpace(e.Title),
		Description: strings.TrimSpace(e.Description),
		Date:        date,
		Location:    strings.TrimSpace(e.Location),
	}
	for _, s := range e.Slots {
		start, _ := time.Parse(slotTimeLayout, s.StartTime)
		end, _ := time.Parse(slotTimeLayout, s.EndTime)
		in.Slots = append(in.Slots, domain.SlotInput{
			StartTime: date.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute),
			EndTime:   date.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute),
		})
	}
	return in
}

// SetEventStatusRequest is the request body for PATCH /events/{eventID}/status.
type SetEventStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (s SetEventStatusRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Status) == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

// EventResponse is the response body for event reads and creates.
type EventResponse struct {
	Event *domain.Event  `json:"event"`
	Slots []*domain.Slot `json:"slots"`
}

// UpdateEventResponse is the response body for PUT /events/{eventID}.
// DroppedRegistrations counts the registrations removed by the slot replacement.
type UpdateEventResponse struct {
	Event                *domain.Event  `json:"event"`
	Slots                []*domain.Slot `json:"slots"`
	DroppedRegistrations int            `json:"dropped_registrations"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event with its slots. New events start closed; open them with PATCH /events/{eventID}/status.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the event and its slots"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, slots, err := c.Service.CreateEvent(r.Context(), req.toEventInput())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "event creation failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, EventResponse{Event: event, Slots: slots})
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event and its slots ordered by start time.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event and its slots"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, slots, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventResponse{Event: event, Slots: slots})
}

// ListEvents godoc
// @Summary List events
// @Description Returns events ordered by date. Optional status filter: closed, open, or completed.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} helpers.APIResponse "data contains the events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("status")))
	events, err := c.Service.ListEvents(r.Context(), status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be \"closed\", \"open\", or \"completed\"")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Updates event fields and replaces the full slot set. Registrations attached to removed slots are dropped; the response reports how many.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body EventRequest true "Event data"
// @Success 200 {object} helpers.APIResponse "data contains the event, slots, and dropped_registrations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, slots, dropped, err := c.Service.UpdateEvent(r.Context(), eventID, req.toEventInput())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "event update failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateEventResponse{
		Event:                event,
		Slots:                slots,
		DroppedRegistrations: dropped,
	})
}

// SetEventStatus godoc
// @Summary Change an event's status
// @Description Sets the event lifecycle state: closed, open, or completed.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body SetEventStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/status [patch]
func (c *EventController) SetEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SetEventStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.SetEventStatus(r.Context(), eventID, strings.TrimSpace(strings.ToLower(req.Status)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidStatus) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be \"closed\", \"open\", or \"completed\"")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "status update failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event, its slots, and every attached registration.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "event deletion failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}
