package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"gorecipe/internal/model"
	"gorecipe/internal/repository"
	"gorecipe/internal/spoonacular"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) AddSavedRecipe(ctx context.Context, user *model.User, recipe *model.Recipe) error {
	args := m.Called(ctx, user, recipe)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveSavedRecipe(ctx context.Context, user *model.User, recipe *model.Recipe) error {
	args := m.Called(ctx, user, recipe)
	return args.Error(0)
}

func (m *MockUserRepository) AddFavoriteIngredient(ctx context.Context, user *model.User, ingredient *model.Ingredient) error {
	args := m.Called(ctx, user, ingredient)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveFavoriteIngredient(ctx context.Context, user *model.User, ingredient *model.Ingredient) error {
	args := m.Called(ctx, user, ingredient)
	return args.Error(0)
}

func (m *MockUserRepository) AddDietaryRestriction(ctx context.Context, user *model.User, restriction *model.DietaryRestriction) error {
	args := m.Called(ctx, user, restriction)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveDietaryRestriction(ctx context.Context, user *model.User, restriction *model.DietaryRestriction) error {
	args := m.Called(ctx, user, restriction)
	return args.Error(0)
}

// MockRecipeRepository is a mock implementation of repository.RecipeRepository.
// WithTransaction runs the callback against the mock itself and TxIngredients,
// so transactional flows can be exercised without a database.
type MockRecipeRepository struct {
	mock.Mock
	TxIngredients repository.IngredientRepository
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Save(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uint) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindBySpoonacularID(ctx context.Context, spoonacularID int64) (*model.Recipe, error) {
	args := m.Called(ctx, spoonacularID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) ExistsBySpoonacularID(ctx context.Context, spoonacularID int64) (bool, error) {
	args := m.Called(ctx, spoonacularID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) FindAllByNameIn(ctx context.Context, names []string) ([]model.Recipe, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, recipes repository.RecipeRepository, ingredients repository.IngredientRepository) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m, m.TxIngredients)
}

// MockIngredientRepository is a mock implementation of repository.IngredientRepository.
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) UpsertByName(ctx context.Context, ingredients []model.Ingredient) ([]model.Ingredient, error) {
	args := m.Called(ctx, ingredients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) FindByID(ctx context.Context, id uint) (*model.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) FindByNames(ctx context.Context, names []string) ([]model.Ingredient, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) List(ctx context.Context) ([]model.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

// MockDietaryRestrictionRepository is a mock implementation of repository.DietaryRestrictionRepository.
type MockDietaryRestrictionRepository struct {
	mock.Mock
}

func (m *MockDietaryRestrictionRepository) Create(ctx context.Context, restriction *model.DietaryRestriction) error {
	args := m.Called(ctx, restriction)
	return args.Error(0)
}

func (m *MockDietaryRestrictionRepository) FindByID(ctx context.Context, id uint) (*model.DietaryRestriction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DietaryRestriction), args.Error(1)
}

func (m *MockDietaryRestrictionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.DietaryRestriction, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DietaryRestriction), args.Error(1)
}

func (m *MockDietaryRestrictionRepository) List(ctx context.Context) ([]model.DietaryRestriction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DietaryRestriction), args.Error(1)
}

func (m *MockDietaryRestrictionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFoodImageRepository is a mock implementation of repository.FoodImageRepository.
type MockFoodImageRepository struct {
	mock.Mock
}

func (m *MockFoodImageRepository) Create(ctx context.Context, image *model.FoodImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockFoodImageRepository) FindByKey(ctx context.Context, storageKey string) (*model.FoodImage, error) {
	args := m.Called(ctx, storageKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodImage), args.Error(1)
}

func (m *MockFoodImageRepository) FindByUser(ctx context.Context, userID uint) ([]model.FoodImage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FoodImage), args.Error(1)
}

func (m *MockFoodImageRepository) Delete(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

// MockCalendarRepository is a mock implementation of repository.CalendarRepository.
type MockCalendarRepository struct {
	mock.Mock
}

func (m *MockCalendarRepository) Create(ctx context.Context, item *model.RecipeCalendarItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCalendarRepository) FindByID(ctx context.Context, id uint) (*model.RecipeCalendarItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecipeCalendarItem), args.Error(1)
}

func (m *MockCalendarRepository) FindByUser(ctx context.Context, userID uint) ([]model.RecipeCalendarItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipeCalendarItem), args.Error(1)
}

func (m *MockCalendarRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of storage.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// MockRecognizer is a mock implementation of vision.Recognizer.
type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Tags(ctx context.Context, imageURL string) ([]string, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockSearchClient is a mock implementation of spoonacular.Client.
type MockSearchClient struct {
	mock.Mock
}

func (m *MockSearchClient) SearchIDs(ctx context.Context, q spoonacular.Query) ([]int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSearchClient) Recipes(ctx context.Context, ids []int64) ([]model.Recipe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockSearchClient) SimilarIDs(ctx context.Context, spoonacularID int64) ([]int64, error) {
	args := m.Called(ctx, spoonacularID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, username, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}
