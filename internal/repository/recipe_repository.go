package repository

import (
	"context"

	"gorm.io/gorm"

	"gorecipe/internal/model"
)

// RecipeRepository defines recipe persistence operations.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	Save(ctx context.Context, recipe *model.Recipe) error
	FindByID(ctx context.Context, id uint) (*model.Recipe, error)
	FindBySpoonacularID(ctx context.Context, spoonacularID int64) (*model.Recipe, error)
	ExistsBySpoonacularID(ctx context.Context, spoonacularID int64) (bool, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindAllByNameIn(ctx context.Context, names []string) ([]model.Recipe, error)
	List(ctx context.Context) ([]model.Recipe, error)
	Delete(ctx context.Context, id uint) error
	// WithTransaction runs fn with recipe and ingredient repositories bound to
	// a single database transaction, rolling back on error.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, recipes RecipeRepository, ingredients IngredientRepository) error) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository builds a GORM-backed repository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) Save(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(recipe).Error
}

func (r *recipeRepository) FindByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients").First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) FindBySpoonacularID(ctx context.Context, spoonacularID int64) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.WithContext(ctx).Preload("Ingredients").
		Where("spoonacular_id = ?", spoonacularID).First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) ExistsBySpoonacularID(ctx context.Context, spoonacularID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("spoonacular_id = ?", spoonacularID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) FindAllByNameIn(ctx context.Context, names []string) ([]model.Recipe, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).Preload("Ingredients").
		Where("name IN ?", names).Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := model.Recipe{ID: id}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, id).Error
	})
}

func (r *recipeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, recipes RecipeRepository, ingredients IngredientRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &recipeRepository{db: tx}, &ingredientRepository{db: tx})
	})
}
