package repository

import (
	"context"

	"gorm.io/gorm"

	"gorecipe/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	AddSavedRecipe(ctx context.Context, user *model.User, recipe *model.Recipe) error
	RemoveSavedRecipe(ctx context.Context, user *model.User, recipe *model.Recipe) error
	AddFavoriteIngredient(ctx context.Context, user *model.User, ingredient *model.Ingredient) error
	RemoveFavoriteIngredient(ctx context.Context, user *model.User, ingredient *model.Ingredient) error
	AddDietaryRestriction(ctx context.Context, user *model.User, restriction *model.DietaryRestriction) error
	RemoveDietaryRestriction(ctx context.Context, user *model.User, restriction *model.DietaryRestriction) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("FavoriteIngredients").
		Preload("SavedRecipes.Ingredients").
		Preload("DietaryRestrictions.DisallowedIngredients").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("FavoriteIngredients").
		Preload("SavedRecipes.Ingredients").
		Preload("DietaryRestrictions.DisallowedIngredients").
		Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes the user together with everything the user owns. The schema
// has no ON DELETE CASCADE, so calendar items, food image rows and association
// rows are cleaned up explicitly inside one transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.RecipeCalendarItem{}).Error; err != nil {
			return err
		}

		var images []model.FoodImage
		if err := tx.Where("uploaded_by_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		for i := range images {
			if err := tx.Model(&images[i]).Association("Ingredients").Clear(); err != nil {
				return err
			}
		}
		if err := tx.Where("uploaded_by_id = ?", id).Delete(&model.FoodImage{}).Error; err != nil {
			return err
		}

		user := model.User{ID: id}
		for _, assoc := range []string{"FavoriteIngredients", "SavedRecipes", "DietaryRestrictions"} {
			if err := tx.Model(&user).Association(assoc).Clear(); err != nil {
				return err
			}
		}

		return tx.Delete(&model.User{}, id).Error
	})
}

func (r *userRepository) AddSavedRecipe(ctx context.Context, user *model.User, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Model(user).Association("SavedRecipes").Append(recipe)
}

func (r *userRepository) RemoveSavedRecipe(ctx context.Context, user *model.User, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Model(user).Association("SavedRecipes").Delete(recipe)
}

func (r *userRepository) AddFavoriteIngredient(ctx context.Context, user *model.User, ingredient *model.Ingredient) error {
	return r.db.WithContext(ctx).Model(user).Association("FavoriteIngredients").Append(ingredient)
}

func (r *userRepository) RemoveFavoriteIngredient(ctx context.Context, user *model.User, ingredient *model.Ingredient) error {
	return r.db.WithContext(ctx).Model(user).Association("FavoriteIngredients").Delete(ingredient)
}

func (r *userRepository) AddDietaryRestriction(ctx context.Context, user *model.User, restriction *model.DietaryRestriction) error {
	return r.db.WithContext(ctx).Model(user).Association("DietaryRestrictions").Append(restriction)
}

func (r *userRepository) RemoveDietaryRestriction(ctx context.Context, user *model.User, restriction *model.DietaryRestriction) error {
	return r.db.WithContext(ctx).Model(user).Association("DietaryRestrictions").Delete(restriction)
}
