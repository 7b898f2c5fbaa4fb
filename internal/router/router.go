package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"gorecipe/internal/config"
	"gorecipe/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	recipeHandler *handler.RecipeHandler,
	imageHandler *handler.ImageHandler,
	restrictionHandler *handler.RestrictionHandler,
) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// User and auth routes
	api.POST("/users", userHandler.CreateUser)
	api.POST("/users/login", authHandler.Login)
	api.POST("/users/refresh", authHandler.Refresh)
	api.POST("/users/logout", authHandler.Logout)
	api.GET("/users/:id", userHandler.GetUser)
	api.PATCH("/users/:id", userHandler.UpdateUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)
	api.POST("/users/:id/profile-picture", userHandler.UploadProfilePicture)

	// Saved recipes and dietary restrictions per user
	api.GET("/users/:userId/recipes", userHandler.SavedRecipes)
	api.POST("/users/:userId/recipes/:recipeId", userHandler.SaveRecipe)
	api.DELETE("/users/:userId/recipes/:recipeId", userHandler.UnsaveRecipe)
	api.GET("/users/:userId/ingredients", userHandler.FavoriteIngredients)
	api.POST("/users/:userId/ingredients/:ingredientId", userHandler.AddFavoriteIngredient)
	api.DELETE("/users/:userId/ingredients/:ingredientId", userHandler.RemoveFavoriteIngredient)
	api.GET("/users/:userId/dietary-restrictions", userHandler.Restrictions)
	api.POST("/users/:userId/dietary-restrictions/:restrictionId", userHandler.AddRestriction)
	api.DELETE("/users/:userId/dietary-restrictions/:restrictionId", userHandler.RemoveRestriction)

	// Calendar routes
	api.GET("/users/:userId/calendar", userHandler.Calendar)
	api.POST("/users/:userId/calendar/:recipeId", userHandler.AddCalendarItem)
	api.DELETE("/users/calendar/:id", userHandler.RemoveCalendarItem)

	// Recipe routes; static segments must be registered so they win over :id.
	api.POST("/recipes", recipeHandler.CreateRecipe)
	api.GET("/recipes/all", recipeHandler.ListRecipes)
	api.GET("/recipes/search", recipeHandler.SearchRecipes)
	api.GET("/recipes/discover", recipeHandler.DiscoverRecipes)
	api.GET("/recipes/explore", recipeHandler.ExploreRecipes)
	api.GET("/recipes/recommend/:userId", recipeHandler.RecommendRecipes)
	api.GET("/recipes/:id", recipeHandler.GetRecipe)
	api.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)

	api.GET("/ingredients", recipeHandler.ListIngredients)

	// Food image routes
	api.POST("/images/upload/:userId", imageHandler.UploadImage)
	api.GET("/images/user/:userId", imageHandler.ListUserImages)
	api.GET("/images/:key", imageHandler.GetImage)
	api.DELETE("/images/:key", imageHandler.DeleteImage)

	// Dietary restriction reference data
	api.POST("/dietary-restrictions", restrictionHandler.CreateRestriction)
	api.GET("/dietary-restrictions", restrictionHandler.ListRestrictions)
	api.GET("/dietary-restrictions/:id", restrictionHandler.GetRestriction)
	api.DELETE("/dietary-restrictions/:id", restrictionHandler.DeleteRestriction)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	secured.GET("/users/me", authHandler.Me)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
