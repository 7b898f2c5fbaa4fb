package repository

import (
	"context"

	"gorm.io/gorm"

	"gorecipe/internal/model"
)

// CalendarRepository defines recipe calendar persistence operations.
type CalendarRepository interface {
	Create(ctx context.Context, item *model.RecipeCalendarItem) error
	FindByID(ctx context.Context, id uint) (*model.RecipeCalendarItem, error)
	FindByUser(ctx context.Context, userID uint) ([]model.RecipeCalendarItem, error)
	Delete(ctx context.Context, id uint) error
}

type calendarRepository struct {
	db *gorm.DB
}

// NewCalendarRepository builds a GORM-backed repository.
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) Create(ctx context.Context, item *model.RecipeCalendarItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *calendarRepository) FindByID(ctx context.Context, id uint) (*model.RecipeCalendarItem, error) {
	var item model.RecipeCalendarItem
	if err := r.db.WithContext(ctx).Preload("Recipe").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *calendarRepository) FindByUser(ctx context.Context, userID uint) ([]model.RecipeCalendarItem, error) {
	var items []model.RecipeCalendarItem
	err := r.db.WithContext(ctx).Preload("Recipe.Ingredients").
		Where("user_id = ?", userID).Order("date").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *calendarRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.RecipeCalendarItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
