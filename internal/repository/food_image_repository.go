package repository

import (
	"context"

	"gorm.io/gorm"

	"gorecipe/internal/model"
)

// FoodImageRepository defines food image persistence operations.
type FoodImageRepository interface {
	Create(ctx context.Context, image *model.FoodImage) error
	FindByKey(ctx context.Context, storageKey string) (*model.FoodImage, error)
	FindByUser(ctx context.Context, userID uint) ([]model.FoodImage, error)
	Delete(ctx context.Context, storageKey string) error
}

type foodImageRepository struct {
	db *gorm.DB
}

// NewFoodImageRepository builds a GORM-backed repository.
func NewFoodImageRepository(db *gorm.DB) FoodImageRepository {
	return &foodImageRepository{db: db}
}

func (r *foodImageRepository) Create(ctx context.Context, image *model.FoodImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *foodImageRepository) FindByKey(ctx context.Context, storageKey string) (*model.FoodImage, error) {
	var image model.FoodImage
	err := r.db.WithContext(ctx).Preload("Ingredients").
		Where("storage_key = ?", storageKey).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *foodImageRepository) FindByUser(ctx context.Context, userID uint) ([]model.FoodImage, error) {
	var images []model.FoodImage
	err := r.db.WithContext(ctx).Preload("Ingredients").
		Where("uploaded_by_id = ?", userID).Order("created_at DESC").Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *foodImageRepository) Delete(ctx context.Context, storageKey string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		image := model.FoodImage{StorageKey: storageKey}
		if err := tx.Model(&image).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Where("storage_key = ?", storageKey).Delete(&model.FoodImage{}).Error
	})
}
