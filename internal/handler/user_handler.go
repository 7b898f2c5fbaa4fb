package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gorecipe/internal/errors"
	"gorecipe/internal/model"
	"gorecipe/internal/service"
)

// UserHandler handles account, saved recipe, dietary restriction and calendar
// endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest represents a registration request.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	BirthDate string `json:"birthDate" validate:"required"`
}

// UpdateUserRequest represents a partial profile update; absent fields are
// left unchanged.
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	BirthDate *string `json:"birthDate"`
}

// CalendarItemRequest carries the date a recipe is scheduled on.
type CalendarItemRequest struct {
	Date string `json:"date" validate:"required"`
}

// CreateUser godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User payload"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
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

	birthDate, err := model.ParseDate(req.BirthDate)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrBadDate)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birthDate,
	}

	created, err := h.svc.Create(c.Request().Context(), user, req.Password)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, created)
}

// GetUser godoc
// @Summary Fetch a user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// UploadProfilePicture godoc
// @Summary Upload a profile picture for a user
// @Tags users
// @Accept mpfd
// @Produce json
// @Param id path int true "User ID"
// @Param image formData file true "Image file"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /users/{id}/profile-picture [post]
func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "missing image file",
			Code:  "INVALID_REQUEST",
		})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unreadable image file",
			Code:  "INVALID_REQUEST",
		})
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	user, err := h.svc.UploadProfilePicture(c.Request().Context(), id, contentType, src)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Partially update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	patch := service.UserPatch{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
	}

	updated, err := h.svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary Delete a user and everything the user owns
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
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

// SavedRecipes godoc
// @Summary List a user's saved recipes
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} model.Recipe
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/recipes [get]
func (h *UserHandler) SavedRecipes(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	recipes, err := h.svc.SavedRecipes(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipes)
}

// SaveRecipe godoc
// @Summary Save a recipe to a user's account
// @Tags users
// @Param userId path int true "User ID"
// @Param recipeId path int true "Recipe ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/recipes/{recipeId} [post]
func (h *UserHandler) SaveRecipe(c echo.Context) error {
	return h.mutateSavedRecipe(c, h.svc.SaveRecipe)
}

// UnsaveRecipe godoc
// @Summary Remove a saved recipe from a user's account
// @Tags users
// @Param userId path int true "User ID"
// @Param recipeId path int true "Recipe ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/recipes/{recipeId} [delete]
func (h *UserHandler) UnsaveRecipe(c echo.Context) error {
	return h.mutateSavedRecipe(c, h.svc.UnsaveRecipe)
}

// FavoriteIngredients godoc
// @Summary List a user's favorite ingredients
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} model.Ingredient
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/ingredients [get]
func (h *UserHandler) FavoriteIngredients(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	ingredients, err := h.svc.FavoriteIngredients(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ingredients)
}

// AddFavoriteIngredient godoc
// @Summary Add an ingredient to a user's favorites
// @Tags users
// @Param userId path int true "User ID"
// @Param ingredientId path int true "Ingredient ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/ingredients/{ingredientId} [post]
func (h *UserHandler) AddFavoriteIngredient(c echo.Context) error {
	return h.mutateFavoriteIngredient(c, h.svc.AddFavoriteIngredient)
}

// RemoveFavoriteIngredient godoc
// @Summary Remove an ingredient from a user's favorites
// @Tags users
// @Param userId path int true "User ID"
// @Param ingredientId path int true "Ingredient ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/ingredients/{ingredientId} [delete]
func (h *UserHandler) RemoveFavoriteIngredient(c echo.Context) error {
	return h.mutateFavoriteIngredient(c, h.svc.RemoveFavoriteIngredient)
}

// Restrictions godoc
// @Summary List a user's dietary restrictions
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} model.DietaryRestriction
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/dietary-restrictions [get]
func (h *UserHandler) Restrictions(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	restrictions, err := h.svc.Restrictions(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, restrictions)
}

// AddRestriction godoc
// @Summary Add a dietary restriction to a user's account
// @Tags users
// @Param userId path int true "User ID"
// @Param restrictionId path int true "Dietary restriction ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/dietary-restrictions/{restrictionId} [post]
func (h *UserHandler) AddRestriction(c echo.Context) error {
	return h.mutateRestriction(c, h.svc.AddRestriction)
}

// RemoveRestriction godoc
// @Summary Remove a dietary restriction from a user's account
// @Tags users
// @Param userId path int true "User ID"
// @Param restrictionId path int true "Dietary restriction ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/dietary-restrictions/{restrictionId} [delete]
func (h *UserHandler) RemoveRestriction(c echo.Context) error {
	return h.mutateRestriction(c, h.svc.RemoveRestriction)
}

// AddCalendarItem godoc
// @Summary Schedule a recipe on a user's calendar
// @Tags calendar
// @Accept json
// @Param userId path int true "User ID"
// @Param recipeId path int true "Recipe ID"
// @Param item body CalendarItemRequest true "Date formatted as yyyy-MM-dd"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/calendar/{recipeId} [post]
func (h *UserHandler) AddCalendarItem(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	recipeID, err := parseID(c, "recipeId")
	if err != nil {
		return err
	}
	var req CalendarItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	if err := h.svc.AddCalendarItem(c.Request().Context(), userID, recipeID, req.Date); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Calendar godoc
// @Summary List a user's recipe calendar
// @Tags calendar
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} model.RecipeCalendarItem
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{userId}/calendar [get]
func (h *UserHandler) Calendar(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	items, err := h.svc.Calendar(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, items)
}

// RemoveCalendarItem godoc
// @Summary Remove an item from a user's calendar
// @Tags calendar
// @Param id path int true "Calendar item ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/calendar/{id} [delete]
func (h *UserHandler) RemoveCalendarItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveCalendarItem(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) mutateSavedRecipe(c echo.Context, op func(ctx context.Context, userID, recipeID uint) error) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	recipeID, err := parseID(c, "recipeId")
	if err != nil {
		return err
	}
	if err := op(c.Request().Context(), userID, recipeID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) mutateFavoriteIngredient(c echo.Context, op func(ctx context.Context, userID, ingredientID uint) error) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	ingredientID, err := parseID(c, "ingredientId")
	if err != nil {
		return err
	}
	if err := op(c.Request().Context(), userID, ingredientID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) mutateRestriction(c echo.Context, op func(ctx context.Context, userID, restrictionID uint) error) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	restrictionID, err := parseID(c, "restrictionId")
	if err != nil {
		return err
	}
	if err := op(c.Request().Context(), userID, restrictionID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// parseID reads a numeric path parameter, rejecting malformed values with a
// 400 before any service work happens.
func parseID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name + " parameter",
			Code:  "INVALID_REQUEST",
		})
	}
	return uint(id), nil
}
