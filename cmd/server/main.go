package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "gorecipe/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"gorecipe/internal/auth"
	"gorecipe/internal/cache"
	"gorecipe/internal/config"
	"gorecipe/internal/db"
	"gorecipe/internal/handler"
	"gorecipe/internal/model"
	"gorecipe/internal/repository"
	"gorecipe/internal/router"
	"gorecipe/internal/service"
	"gorecipe/internal/spoonacular"
	"gorecipe/internal/storage"
	"gorecipe/internal/vision"
)

// @title GoRecipe API
// @version 1.0
// @description Recipe management API with ingredient recognition from food photos, external recipe discovery and dietary restriction filtering.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.RecipeCalendarItem{},
			&model.FoodImage{},
			&model.Recipe{},
			&model.DietaryRestriction{},
			&model.Ingredient{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Ingredient{},
		&model.User{},
		&model.Recipe{},
		&model.DietaryRestriction{},
		&model.FoodImage{},
		&model.RecipeCalendarItem{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	recipeRepo := repository.NewRecipeRepository(gormDB)
	ingredientRepo := repository.NewIngredientRepository(gormDB)
	restrictionRepo := repository.NewDietaryRestrictionRepository(gormDB)
	imageRepo := repository.NewFoodImageRepository(gormDB)
	calendarRepo := repository.NewCalendarRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize external collaborators
	objectStorage, err := storage.NewS3(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	if err != nil {
		log.Fatalf("object storage init: %v", err)
	}
	recognizer := vision.NewClarifai(cfg.ClarifaiAPIKey, cfg.ClarifaiModelID)
	searchClient := spoonacular.New(cfg.SpoonacularAPIKey, cfg.SpoonacularAPIHost)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, recipeRepo, ingredientRepo, restrictionRepo, calendarRepo, imageRepo, objectStorage, cacheClient)
	recipeService := service.NewRecipeService(recipeRepo, ingredientRepo, restrictionRepo, userRepo, searchClient, cacheClient)
	imageService := service.NewImageService(userRepo, imageRepo, ingredientRepo, objectStorage, recognizer)
	restrictionService := service.NewRestrictionService(restrictionRepo, ingredientRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	imageHandler := handler.NewImageHandler(imageService)
	restrictionHandler := handler.NewRestrictionHandler(restrictionService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		recipeHandler,
		imageHandler,
		restrictionHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
