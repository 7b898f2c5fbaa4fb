package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"gorecipe/internal/errors"
	"gorecipe/internal/model"
	"gorecipe/internal/service"
	"gorecipe/internal/spoonacular"
)

// RecipeHandler handles recipe CRUD, local search and the external discovery
// endpoints.
type RecipeHandler struct {
	svc service.RecipeService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(svc service.RecipeService) *RecipeHandler {
	return &RecipeHandler{svc: svc}
}

// CreateRecipeRequest represents a manually submitted recipe.
type CreateRecipeRequest struct {
	Name               string   `json:"name" validate:"required"`
	Instructions       string   `json:"instructions" validate:"required"`
	PrepTime           int      `json:"prepTime"`
	Servings           int      `json:"servings"`
	Ingredients        []string `json:"ingredients"`
	VerboseIngredients []string `json:"verboseIngredients"`
	ImageURL           string   `json:"imageURL"`
	VideoURL           string   `json:"videoURL"`
	SourceURL          string   `json:"sourceURL"`
}

// CreateRecipe godoc
// @Summary Submit a new recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body CreateRecipeRequest true "Recipe payload"
// @Success 200 {object} model.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /recipes [post]
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	var req CreateRecipeRequest
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

	ingredients := make([]model.Ingredient, 0, len(req.Ingredients))
	for _, name := range req.Ingredients {
		ingredients = append(ingredients, model.Ingredient{Name: name})
	}

	recipe := &model.Recipe{
		Name:               req.Name,
		Instructions:       req.Instructions,
		PrepTime:           req.PrepTime,
		Servings:           req.Servings,
		Ingredients:        ingredients,
		VerboseIngredients: req.VerboseIngredients,
		ImageURL:           req.ImageURL,
		VideoURL:           req.VideoURL,
		SourceURL:          req.SourceURL,
	}

	created, err := h.svc.Create(c.Request().Context(), recipe)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, created)
}

// GetRecipe godoc
// @Summary Fetch a recipe by id
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} model.Recipe
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	recipe, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipe)
}

// ListRecipes godoc
// @Summary List all stored recipes
// @Tags recipes
// @Produce json
// @Success 200 {array} model.Recipe
// @Router /recipes/all [get]
func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	recipes, err := h.svc.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipes)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
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

// ListIngredients godoc
// @Summary List every known ingredient
// @Tags ingredients
// @Produce json
// @Success 200 {array} model.Ingredient
// @Router /ingredients [get]
func (h *RecipeHandler) ListIngredients(c echo.Context) error {
	ingredients, err := h.svc.Ingredients(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ingredients)
}

// SearchRecipes godoc
// @Summary Filter stored recipes by ingredients, restrictions and text
// @Tags recipes
// @Produce json
// @Param ingredients query string false "Comma-separated ingredient names (OR semantics)"
// @Param restrictions query string false "Comma-separated dietary restriction ids"
// @Param query query string false "Substring matched against name and instructions"
// @Success 200 {array} model.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/search [get]
func (h *RecipeHandler) SearchRecipes(c echo.Context) error {
	criteria := service.FilterCriteria{
		IngredientNames: splitCSV(c.QueryParam("ingredients")),
		Query:           c.QueryParam("query"),
	}

	for _, raw := range splitCSV(c.QueryParam("restrictions")) {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid restrictions parameter",
				Code:  "INVALID_REQUEST",
			})
		}
		criteria.RestrictionIDs = append(criteria.RestrictionIDs, uint(id))
	}

	recipes, err := h.svc.Search(c.Request().Context(), criteria)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipes)
}

// DiscoverRecipes godoc
// @Summary Search the external recipe catalog and import the results
// @Tags recipes
// @Produce json
// @Param query query string false "Free-text query"
// @Param cuisine query string false "Cuisine filter"
// @Param diet query string false "Diet filter"
// @Param intolerances query string false "Intolerance filter"
// @Param ingredients query string false "Comma-separated ingredients to include"
// @Param type query string false "Meal type filter"
// @Success 200 {array} model.Recipe
// @Failure 502 {object} errors.ErrorResponse
// @Router /recipes/discover [get]
func (h *RecipeHandler) DiscoverRecipes(c echo.Context) error {
	q := spoonacular.Query{
		Query:        c.QueryParam("query"),
		Cuisine:      c.QueryParam("cuisine"),
		Diet:         c.QueryParam("diet"),
		Intolerances: c.QueryParam("intolerances"),
		Ingredients:  c.QueryParam("ingredients"),
		Type:         c.QueryParam("type"),
	}

	recipes, err := h.svc.Discover(c.Request().Context(), q)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipes)
}

// ExploreRecipes godoc
// @Summary Fetch the themed explore page buckets
// @Tags recipes
// @Produce json
// @Success 200 {object} map[string][]model.Recipe
// @Failure 502 {object} errors.ErrorResponse
// @Router /recipes/explore [get]
func (h *RecipeHandler) ExploreRecipes(c echo.Context) error {
	page, err := h.svc.Explore(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// RecommendRecipes godoc
// @Summary Recommend recipes similar to a user's saved recipes
// @Tags recipes
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} model.Recipe
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /recipes/recommend/{userId} [get]
func (h *RecipeHandler) RecommendRecipes(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	recipes, err := h.svc.Recommend(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipes)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
