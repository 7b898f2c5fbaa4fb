package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gorecipe/internal/errors"
	"gorecipe/internal/model"
	"gorecipe/internal/service"
)

// RestrictionHandler handles the dietary restriction reference endpoints.
type RestrictionHandler struct {
	svc service.RestrictionService
}

// NewRestrictionHandler creates a new dietary restriction handler.
func NewRestrictionHandler(svc service.RestrictionService) *RestrictionHandler {
	return &RestrictionHandler{svc: svc}
}

// CreateRestrictionRequest represents a new dietary restriction with the
// ingredient names it disallows.
type CreateRestrictionRequest struct {
	Name                  string   `json:"name" validate:"required"`
	DisallowedIngredients []string `json:"disallowedIngredients"`
}

// CreateRestriction godoc
// @Summary Create a dietary restriction
// @Tags dietary-restrictions
// @Accept json
// @Produce json
// @Param restriction body CreateRestrictionRequest true "Restriction payload"
// @Success 201 {object} model.DietaryRestriction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /dietary-restrictions [post]
func (h *RestrictionHandler) CreateRestriction(c echo.Context) error {
	var req CreateRestrictionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	disallowed := make([]model.Ingredient, 0, len(req.DisallowedIngredients))
	for _, name := range req.DisallowedIngredients {
		disallowed = append(disallowed, model.Ingredient{Name: name})
	}

	restriction := &model.DietaryRestriction{
		Name:                  req.Name,
		DisallowedIngredients: disallowed,
	}

	created, err := h.svc.Create(c.Request().Context(), restriction)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, created)
}

// GetRestriction godoc
// @Summary Fetch a dietary restriction by id
// @Tags dietary-restrictions
// @Produce json
// @Param id path int true "Dietary restriction ID"
// @Success 200 {object} model.DietaryRestriction
// @Failure 404 {object} errors.ErrorResponse
// @Router /dietary-restrictions/{id} [get]
func (h *RestrictionHandler) GetRestriction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	restriction, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, restriction)
}

// ListRestrictions godoc
// @Summary List every dietary restriction
// @Tags dietary-restrictions
// @Produce json
// @Success 200 {array} model.DietaryRestriction
// @Router /dietary-restrictions [get]
func (h *RestrictionHandler) ListRestrictions(c echo.Context) error {
	restrictions, err := h.svc.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, restrictions)
}

// DeleteRestriction godoc
// @Summary Delete a dietary restriction
// @Tags dietary-restrictions
// @Param id path int true "Dietary restriction ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /dietary-restrictions/{id} [delete]
func (h *RestrictionHandler) DeleteRestriction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
