package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gorecipe/internal/model"
)

// IngredientRepository defines ingredient persistence operations.
type IngredientRepository interface {
	// UpsertByName inserts any ingredients whose name is not stored yet and
	// returns the canonical rows (with ids) for every requested name.
	UpsertByName(ctx context.Context, ingredients []model.Ingredient) ([]model.Ingredient, error)
	FindByID(ctx context.Context, id uint) (*model.Ingredient, error)
	FindByNames(ctx context.Context, names []string) ([]model.Ingredient, error)
	List(ctx context.Context) ([]model.Ingredient, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository builds a GORM-backed repository.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) UpsertByName(ctx context.Context, ingredients []model.Ingredient) ([]model.Ingredient, error) {
	if len(ingredients) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(ingredients))
	unique := make([]model.Ingredient, 0, len(ingredients))
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing.Name == "" || seen[ing.Name] {
			continue
		}
		seen[ing.Name] = true
		unique = append(unique, model.Ingredient{Name: ing.Name})
		names = append(names, ing.Name)
	}
	// All names blank: gorm rejects an empty Create batch, so stop here.
	if len(unique) == 0 {
		return nil, nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&unique).Error
	if err != nil {
		return nil, err
	}

	// Reload so callers get stable ids even for rows that already existed.
	return r.FindByNames(ctx, names)
}

func (r *ingredientRepository) FindByID(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByNames(ctx context.Context, names []string) ([]model.Ingredient, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var ingredients []model.Ingredient
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) List(ctx context.Context) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := r.db.WithContext(ctx).Order("name").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}
