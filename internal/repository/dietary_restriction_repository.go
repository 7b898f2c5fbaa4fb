package repository

import (
	"context"

	"gorm.io/gorm"

	"gorecipe/internal/model"
)

// DietaryRestrictionRepository defines dietary restriction persistence operations.
type DietaryRestrictionRepository interface {
	Create(ctx context.Context, restriction *model.DietaryRestriction) error
	FindByID(ctx context.Context, id uint) (*model.DietaryRestriction, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.DietaryRestriction, error)
	List(ctx context.Context) ([]model.DietaryRestriction, error)
	Delete(ctx context.Context, id uint) error
}

type dietaryRestrictionRepository struct {
	db *gorm.DB
}

// NewDietaryRestrictionRepository builds a GORM-backed repository.
func NewDietaryRestrictionRepository(db *gorm.DB) DietaryRestrictionRepository {
	return &dietaryRestrictionRepository{db: db}
}

func (r *dietaryRestrictionRepository) Create(ctx context.Context, restriction *model.DietaryRestriction) error {
	return r.db.WithContext(ctx).Create(restriction).Error
}

func (r *dietaryRestrictionRepository) FindByID(ctx context.Context, id uint) (*model.DietaryRestriction, error) {
	var restriction model.DietaryRestriction
	err := r.db.WithContext(ctx).Preload("DisallowedIngredients").First(&restriction, id).Error
	if err != nil {
		return nil, err
	}
	return &restriction, nil
}

func (r *dietaryRestrictionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.DietaryRestriction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var restrictions []model.DietaryRestriction
	err := r.db.WithContext(ctx).Preload("DisallowedIngredients").
		Where("id IN ?", ids).Find(&restrictions).Error
	if err != nil {
		return nil, err
	}
	return restrictions, nil
}

func (r *dietaryRestrictionRepository) List(ctx context.Context) ([]model.DietaryRestriction, error) {
	var restrictions []model.DietaryRestriction
	err := r.db.WithContext(ctx).Preload("DisallowedIngredients").Order("name").Find(&restrictions).Error
	if err != nil {
		return nil, err
	}
	return restrictions, nil
}

func (r *dietaryRestrictionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restriction := model.DietaryRestriction{ID: id}
		if err := tx.Model(&restriction).Association("DisallowedIngredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.DietaryRestriction{}, id).Error
	})
}
