package main

import (
	"context"
	"log"

	"gorecipe/internal/config"
	"gorecipe/internal/db"
	"gorecipe/internal/model"
	"gorecipe/internal/repository"
)

// seedRestriction pairs a dietary restriction name with the ingredient names
// it disallows.
type seedRestriction struct {
	Name       string
	Disallowed []string
}

var baselineRestrictions = []seedRestriction{
	{
		Name: "vegetarian",
		Disallowed: []string{
			"beef", "chicken", "pork", "lamb", "bacon", "ham",
			"turkey", "salmon", "tuna", "shrimp", "anchovies", "gelatin",
		},
	},
	{
		Name: "vegan",
		Disallowed: []string{
			"beef", "chicken", "pork", "lamb", "bacon", "ham",
			"turkey", "salmon", "tuna", "shrimp", "anchovies", "gelatin",
			"milk", "butter", "cheese", "cream", "yogurt", "egg", "honey",
		},
	},
	{
		Name: "pescatarian",
		Disallowed: []string{
			"beef", "chicken", "pork", "lamb", "bacon", "ham", "turkey",
		},
	},
	{
		Name: "gluten free",
		Disallowed: []string{
			"wheat flour", "bread", "pasta", "barley", "rye", "couscous", "semolina",
		},
	},
	{
		Name: "dairy free",
		Disallowed: []string{
			"milk", "butter", "cheese", "cream", "yogurt",
		},
	},
	{
		Name: "nut allergy",
		Disallowed: []string{
			"peanuts", "almonds", "cashews", "walnuts", "pecans", "pistachios", "hazelnuts",
		},
	},
	{
		Name: "shellfish allergy",
		Disallowed: []string{
			"shrimp", "crab", "lobster", "clams", "mussels", "oysters", "scallops",
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Ingredient{}, &model.DietaryRestriction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ingredientRepo := repository.NewIngredientRepository(gormDB)
	restrictionRepo := repository.NewDietaryRestrictionRepository(gormDB)
	ctx := context.Background()

	existing, err := restrictionRepo.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list restrictions: %v", err)
	}
	present := make(map[string]bool, len(existing))
	for _, restriction := range existing {
		present[restriction.Name] = true
	}

	created := 0
	skipped := 0
	for _, seed := range baselineRestrictions {
		if present[seed.Name] {
			skipped++
			continue
		}

		ingredients := make([]model.Ingredient, 0, len(seed.Disallowed))
		for _, name := range seed.Disallowed {
			ingredients = append(ingredients, model.Ingredient{Name: name})
		}
		canonical, err := ingredientRepo.UpsertByName(ctx, ingredients)
		if err != nil {
			log.Fatalf("Failed to upsert ingredients for %s: %v", seed.Name, err)
		}

		restriction := &model.DietaryRestriction{
			Name:                  seed.Name,
			DisallowedIngredients: canonical,
		}
		if err := restrictionRepo.Create(ctx, restriction); err != nil {
			log.Fatalf("Failed to create restriction %s: %v", seed.Name, err)
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New restrictions created: %d", created)
	log.Printf("  - Existing restrictions skipped: %d", skipped)
}
