package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gorecipe/internal/cache"
	apperrors "gorecipe/internal/errors"
	"gorecipe/internal/model"
	"gorecipe/internal/repository"
	"gorecipe/internal/storage"
)

const userCacheTTL = 5 * time.Minute

// UserPatch carries the fields of a partial profile update; nil means "leave
// unchanged".
type UserPatch struct {
	Username  *string
	Password  *string
	Email     *string
	FirstName *string
	LastName  *string
	BirthDate *string
}

// UserService exposes account, association and calendar operations.
type UserService interface {
	Create(ctx context.Context, user *model.User, password string) (*model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Update(ctx context.Context, id uint, patch UserPatch) (*model.User, error)
	Delete(ctx context.Context, id uint) error
	UploadProfilePicture(ctx context.Context, userID uint, contentType string, body io.Reader) (*model.User, error)

	SavedRecipes(ctx context.Context, userID uint) ([]model.Recipe, error)
	SaveRecipe(ctx context.Context, userID, recipeID uint) error
	UnsaveRecipe(ctx context.Context, userID, recipeID uint) error

	FavoriteIngredients(ctx context.Context, userID uint) ([]model.Ingredient, error)
	AddFavoriteIngredient(ctx context.Context, userID, ingredientID uint) error
	RemoveFavoriteIngredient(ctx context.Context, userID, ingredientID uint) error

	Restrictions(ctx context.Context, userID uint) ([]model.DietaryRestriction, error)
	AddRestriction(ctx context.Context, userID, restrictionID uint) error
	RemoveRestriction(ctx context.Context, userID, restrictionID uint) error

	AddCalendarItem(ctx context.Context, userID, recipeID uint, date string) error
	Calendar(ctx context.Context, userID uint) ([]model.RecipeCalendarItem, error)
	RemoveCalendarItem(ctx context.Context, itemID uint) error
}

type userService struct {
	users        repository.UserRepository
	recipes      repository.RecipeRepository
	ingredients  repository.IngredientRepository
	restrictions repository.DietaryRestrictionRepository
	calendar     repository.CalendarRepository
	images       repository.FoodImageRepository
	storage      storage.ObjectStorage
	cache        *cache.Client
}

// NewUserService builds a UserService.
func NewUserService(
	users repository.UserRepository,
	recipes repository.RecipeRepository,
	ingredients repository.IngredientRepository,
	restrictions repository.DietaryRestrictionRepository,
	calendar repository.CalendarRepository,
	images repository.FoodImageRepository,
	objectStorage storage.ObjectStorage,
	cacheClient *cache.Client,
) UserService {
	return &userService{
		users:        users,
		recipes:      recipes,
		ingredients:  ingredients,
		restrictions: restrictions,
		calendar:     calendar,
		images:       images,
		storage:      objectStorage,
		cache:        cacheClient,
	}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) Create(ctx context.Context, user *model.User, password string) (*model.User, error) {
	if user.Username == "" || password == "" || user.Email == "" ||
		user.FirstName == "" || user.LastName == "" || user.BirthDate.IsZero() {
		return nil, apperrors.ErrMissingField
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, patch UserPatch) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.BirthDate != nil {
		birthDate, err := model.ParseDate(*patch.BirthDate)
		if err != nil {
			return nil, apperrors.ErrBadDate
		}
		user.BirthDate = birthDate
	}

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// Delete removes the account. Stored objects for the user's food images are
// removed from object storage best-effort before the transactional row
// cleanup; a missing object must not block account removal.
func (s *userService) Delete(ctx context.Context, id uint) error {
	exists, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}

	images, err := s.images.FindByUser(ctx, id)
	if err != nil {
		return err
	}
	for _, image := range images {
		if err := s.storage.Delete(ctx, image.StorageKey); err != nil {
			log.Printf("delete stored object %s: %v", image.StorageKey, err)
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// UploadProfilePicture stores the picture under a fixed per-user key, so a
// re-upload replaces the previous object, and records the resulting URL on the
// user row.
func (s *userService) UploadProfilePicture(ctx context.Context, userID uint, contentType string, body io.Reader) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	topLevel, subtype, ok := splitContentType(contentType)
	if !ok || topLevel != "image" {
		return nil, apperrors.ErrNotAnImage
	}

	key := fmt.Sprintf("profile_picture_%d.%s", userID, subtype)
	url, err := s.storage.Upload(ctx, key, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	user.ProfilePicture = url
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return user, nil
}

func (s *userService) SavedRecipes(ctx context.Context, userID uint) ([]model.Recipe, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user.SavedRecipes, nil
}

func (s *userService) SaveRecipe(ctx context.Context, userID, recipeID uint) error {
	user, recipe, err := s.userAndRecipe(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if err := s.users.AddSavedRecipe(ctx, user, recipe); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

func (s *userService) UnsaveRecipe(ctx context.Context, userID, recipeID uint) error {
	user, recipe, err := s.userAndRecipe(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if err := s.users.RemoveSavedRecipe(ctx, user, recipe); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

func (s *userService) FavoriteIngredients(ctx context.Context, userID uint) ([]model.Ingredient, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user.FavoriteIngredients, nil
}

func (s *userService) AddFavoriteIngredient(ctx context.Context, userID, ingredientID uint) error {
	user, ingredient, err := s.userAndIngredient(ctx, userID, ingredientID)
	if err != nil {
		return err
	}
	if err := s.users.AddFavoriteIngredient(ctx, user, ingredient); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

func (s *userService) RemoveFavoriteIngredient(ctx context.Context, userID, ingredientID uint) error {
	user, ingredient, err := s.userAndIngredient(ctx, userID, ingredientID)
	if err != nil {
		return err
	}
	if err := s.users.RemoveFavoriteIngredient(ctx, user, ingredient); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

func (s *userService) Restrictions(ctx context.Context, userID uint) ([]model.DietaryRestriction, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user.DietaryRestrictions, nil
}

func (s *userService) AddRestriction(ctx context.Context, userID, restrictionID uint) error {
	user, restriction, err := s.userAndRestriction(ctx, userID, restrictionID)
	if err != nil {
		return err
	}
	if err := s.users.AddDietaryRestriction(ctx, user, restriction); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

func (s *userService) RemoveRestriction(ctx context.Context, userID, restrictionID uint) error {
	user, restriction, err := s.userAndRestriction(ctx, userID, restrictionID)
	if err != nil {
		return err
	}
	if err := s.users.RemoveDietaryRestriction(ctx, user, restriction); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

func (s *userService) AddCalendarItem(ctx context.Context, userID, recipeID uint, date string) error {
	userExists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !userExists {
		return apperrors.ErrUserNotFound
	}

	recipeExists, err := s.recipes.ExistsByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if !recipeExists {
		return apperrors.ErrRecipeNotFound
	}

	parsed, err := model.ParseDate(date)
	if err != nil {
		return apperrors.ErrBadDate
	}

	item := &model.RecipeCalendarItem{
		UserID:   userID,
		RecipeID: recipeID,
		Date:     parsed,
	}
	return s.calendar.Create(ctx, item)
}

func (s *userService) Calendar(ctx context.Context, userID uint) ([]model.RecipeCalendarItem, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}
	return s.calendar.FindByUser(ctx, userID)
}

func (s *userService) RemoveCalendarItem(ctx context.Context, itemID uint) error {
	if err := s.calendar.Delete(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCalendarItemNotFound
		}
		return err
	}
	return nil
}

func (s *userService) userAndRecipe(ctx context.Context, userID, recipeID uint) (*model.User, *model.Recipe, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, err
	}

	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrRecipeNotFound
		}
		return nil, nil, err
	}
	return user, recipe, nil
}

func (s *userService) userAndIngredient(ctx context.Context, userID, ingredientID uint) (*model.User, *model.Ingredient, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, err
	}

	ingredient, err := s.ingredients.FindByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrIngredientNotFound
		}
		return nil, nil, err
	}
	return user, ingredient, nil
}

func (s *userService) userAndRestriction(ctx context.Context, userID, restrictionID uint) (*model.User, *model.DietaryRestriction, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, err
	}

	restriction, err := s.restrictions.FindByID(ctx, restrictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrRestrictionNotFound
		}
		return nil, nil, err
	}
	return user, restriction, nil
}
