package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventapp/internal/delivery/http/helpers"
	"eventapp/internal/domain"
)

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

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DateOfEvent     time.Time `json:"date_of_event"`
	Place           string    `json:"place"`
	MaxParticipants int       `json:"max_participants"`
	ImageURL        string    `json:"image_url"`
	CategoryID      string    `json:"category_id"`
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var problems []string
	if r.Name == "" {
		problems = append(problems, "name is required")
	}
	if r.DateOfEvent.IsZero() {
		problems = append(problems, "date_of_event is required")
	}
	if r.MaxParticipants <= 0 {
		problems = append(problems, "max_participants must be positive")
	}
	if r.CategoryID == "" {
		problems = append(problems, "category_id is required")
	} else if !uuidRegex.MatchString(r.CategoryID) {
		problems = append(problems, "category_id must be a UUID")
	}
	return problems
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event to create"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (category does not exist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.Create(r.Context(), &domain.Event{
		Name:            req.Name,
		Description:     req.Description,
		DateOfEvent:     req.DateOfEvent,
		Place:           req.Place,
		MaxParticipants: req.MaxParticipants,
		ImageURL:        req.ImageURL,
		CategoryID:      req.CategoryID,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEventsResponse is the payload for GET /events.
type ListEventsResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events.
type ListEventsSuccessResponse struct {
	Data  *ListEventsResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

func parseEventFilter(r *http.Request) (domain.EventFilter, error) {
	var filter domain.EventFilter
	q := r.URL.Query()

	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("date_from must be RFC 3339")
		}
		filter.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("date_to must be RFC 3339")
		}
		filter.DateTo = &t
	}
	if v := q.Get("category_id"); v != "" {
		if !uuidRegex.MatchString(v) {
			return filter, errors.New("category_id must be a UUID")
		}
		filter.CategoryID = v
	}
	filter.Place = q.Get("place")
	filter.NameContains = q.Get("name")
	return filter, nil
}

func parseEventSort(r *http.Request) (domain.EventSort, error) {
	sort := domain.EventSort{By: domain.EventSortByDate, Order: helpers.ParseSortOrder(r)}
	switch v := r.URL.Query().Get("sort_by"); v {
	case "":
	case string(domain.EventSortByName), string(domain.EventSortByDate),
		string(domain.EventSortByPlace), string(domain.EventSortByCategory):
		sort.By = domain.EventSortBy(v)
	default:
		return sort, errors.New("sort_by must be one of: name, date, place, category")
	}
	return sort, nil
}

// List godoc
// @Summary List events
// @Description Lists events matching the given filters, sorted and paginated.
// @Tags events
// @Produce json
// @Param date_from query string false "Earliest event date (RFC 3339)"
// @Param date_to query string false "Latest event date (RFC 3339)"
// @Param place query string false "Place substring (case-insensitive)"
// @Param category_id query string false "Category ID (UUID)"
// @Param name query string false "Name substring (case-insensitive)"
// @Param sort_by query string false "Sort key: name, date, place or category" default(date)
// @Param sort_order query string false "Sort direction: asc or desc" default(asc)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	sort, err := parseEventSort(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.List(r.Context(), filter, sort, params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Items: events, Pagination: meta})
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. Omitted
// fields are left unchanged.
type UpdateEventRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	DateOfEvent     *time.Time `json:"date_of_event"`
	Place           *string    `json:"place"`
	MaxParticipants *int       `json:"max_participants"`
	ImageURL        *string    `json:"image_url"`
	CategoryID      *string    `json:"category_id"`
}

// Validate implements helpers.Validator.
func (r *UpdateEventRequest) Validate() []string {
	var problems []string
	if r.Name != nil && *r.Name == "" {
		problems = append(problems, "name must not be empty")
	}
	if r.MaxParticipants != nil && *r.MaxParticipants <= 0 {
		problems = append(problems, "max_participants must be positive")
	}
	if r.CategoryID != nil && !uuidRegex.MatchString(*r.CategoryID) {
		problems = append(problems, "category_id must be a UUID")
	}
	return problems
}

// Update godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.Update(r.Context(), eventID, domain.EventUpdate{
		Name:            req.Name,
		Description:     req.Description,
		DateOfEvent:     req.DateOfEvent,
		Place:           req.Place,
		MaxParticipants: req.MaxParticipants,
		ImageURL:        req.ImageURL,
		CategoryID:      req.CategoryID,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "Event deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	if err := c.Service.Delete(r.Context(), eventID); err != nil {
		c.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
