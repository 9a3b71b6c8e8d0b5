package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventapp/internal/delivery/http/helpers"
	"eventapp/internal/domain"
)

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.EventCategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.EventCategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *CategoryController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "category not found")
	case errors.Is(err, domain.ErrDuplicateCategory):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "a category with that name already exists")
	case errors.Is(err, domain.ErrCategoryInUse):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "category is still referenced by events")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CategoryRequest is the request body for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate implements helpers.Validator.
func (r *CategoryRequest) Validate() []string {
	if r.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

// CategorySuccessResponse is the success response envelope for single-category endpoints.
type CategorySuccessResponse struct {
	Data  *domain.EventCategory `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Create godoc
// @Summary Create an event category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CategoryRequest true "Category to create"
// @Success 201 {object} controllers.CategorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate name)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [post]
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	category, err := c.Service.Create(r.Context(), &domain.EventCategory{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// GetByID godoc
// @Summary Get a category by ID
// @Tags categories
// @Produce json
// @Param categoryID path string true "Category ID (UUID)"
// @Success 200 {object} controllers.CategorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [get]
func (c *CategoryController) GetByID(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("categoryID")
	if !uuidRegex.MatchString(categoryID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid categoryID")
		return
	}

	category, err := c.Service.GetByID(r.Context(), categoryID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// ListCategoriesResponse is the payload for GET /categories.
type ListCategoriesResponse struct {
	Items      []*domain.EventCategory `json:"items"`
	Pagination helpers.PaginationMeta  `json:"pagination"`
}

// ListCategoriesSuccessResponse is the success response envelope for GET /categories.
type ListCategoriesSuccessResponse struct {
	Data  *ListCategoriesResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// List godoc
// @Summary List event categories
// @Tags categories
// @Produce json
// @Param name query string false "Name substring (case-insensitive)"
// @Param sort_order query string false "Sort direction: asc or desc" default(asc)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} controllers.ListCategoriesSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.CategoryFilter{NameContains: r.URL.Query().Get("name")}
	order := helpers.ParseSortOrder(r)
	params := helpers.ParsePagination(r)

	categories, total, err := c.Service.List(r.Context(), filter, order, params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListCategoriesResponse{Items: categories, Pagination: meta})
}

// Update godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Param body body controllers.CategoryRequest true "New category fields"
// @Success 200 {object} controllers.CategorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate name)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [put]
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("categoryID")
	if !uuidRegex.MatchString(categoryID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid categoryID")
		return
	}

	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	category, err := c.Service.Update(r.Context(), &domain.EventCategory{
		ID:          categoryID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// Delete godoc
// @Summary Delete a category
// @Description Fails with a conflict while any event still references the category.
// @Tags categories
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Success 204 "Category deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (category in use)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [delete]
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("categoryID")
	if !uuidRegex.MatchString(categoryID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid categoryID")
		return
	}

	if err := c.Service.Delete(r.Context(), categoryID); err != nil {
		c.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
