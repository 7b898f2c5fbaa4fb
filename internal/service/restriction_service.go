package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "gorecipe/internal/errors"
	"gorecipe/internal/model"
	"gorecipe/internal/repository"
)

// RestrictionService manages the dietary restriction reference data.
type RestrictionService interface {
	Create(ctx context.Context, restriction *model.DietaryRestriction) (*model.DietaryRestriction, error)
	Get(ctx context.Context, id uint) (*model.DietaryRestriction, error)
	List(ctx context.Context) ([]model.DietaryRestriction, error)
	Delete(ctx context.Context, id uint) error
}

type restrictionService struct {
	restrictions repository.DietaryRestrictionRepository
	ingredients  repository.IngredientRepository
}

// NewRestrictionService builds a RestrictionService.
func NewRestrictionService(restrictions repository.DietaryRestrictionRepository, ingredients repository.IngredientRepository) RestrictionService {
	return &restrictionService{restrictions: restrictions, ingredients: ingredients}
}

func (s *restrictionService) Create(ctx context.Context, restriction *model.DietaryRestriction) (*model.DietaryRestriction, error) {
	if restriction.Name == "" {
		return nil, apperrors.ErrMissingField
	}

	// Disallowed ingredients arrive as names; resolve them to canonical rows
	// so the association write references stable ids.
	canonical, err := s.ingredients.UpsertByName(ctx, restriction.DisallowedIngredients)
	if err != nil {
		return nil, err
	}
	restriction.DisallowedIngredients = canonical

	if err := s.restrictions.Create(ctx, restriction); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateRestriction
		}
		return nil, err
	}
	return restriction, nil
}

func (s *restrictionService) Get(ctx context.Context, id uint) (*model.DietaryRestriction, error) {
	restriction, err := s.restrictions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRestrictionNotFound
		}
		return nil, err
	}
	return restriction, nil
}

func (s *restrictionService) List(ctx context.Context) ([]model.DietaryRestriction, error) {
	return s.restrictions.List(ctx)
}

func (s *restrictionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.restrictions.Delete(ctx, id)
}
