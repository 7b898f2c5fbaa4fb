package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gorecipe/internal/cache"
	apperrors "gorecipe/internal/errors"
	"gorecipe/internal/model"
	"gorecipe/internal/spoonacular"
)

func newTestRecipeService(
	recipes *MockRecipeRepository,
	ingredients *MockIngredientRepository,
	restrictions *MockDietaryRestrictionRepository,
	users *MockUserRepository,
	search *MockSearchClient,
) RecipeService {
	recipes.TxIngredients = ingredients
	// A nil cache client behaves as a permanent miss, keeping tests hermetic.
	return NewRecipeService(recipes, ingredients, restrictions, users, search, (*cache.Client)(nil))
}

func ingredientsNamed(names ...string) []model.Ingredient {
	out := make([]model.Ingredient, 0, len(names))
	for i, name := range names {
		out = append(out, model.Ingredient{ID: uint(i + 1), Name: name})
	}
	return out
}

func TestRecipeService_Search(t *testing.T) {
	pancakes := model.Recipe{ID: 1, Name: "Pancakes", Instructions: "Whisk and fry.", Ingredients: ingredientsNamed("flour", "milk")}
	salad := model.Recipe{ID: 2, Name: "Tomato Salad", Instructions: "Chop and toss.", Ingredients: ingredientsNamed("tomato", "olive oil")}
	congee := model.Recipe{ID: 3, Name: "Congee", Instructions: "Simmer rice slowly.", Ingredients: ingredientsNamed("rice")}
	stored := []model.Recipe{pancakes, salad, congee}

	t.Run("empty criteria is rejected", func(t *testing.T) {
		svc := newTestRecipeService(new(MockRecipeRepository), new(MockIngredientRepository), new(MockDietaryRestrictionRepository), new(MockUserRepository), new(MockSearchClient))
		_, err := svc.Search(context.Background(), FilterCriteria{})
		assert.ErrorIs(t, err, apperrors.ErrEmptySearchCriteria)
	})

	t.Run("ingredients match with OR semantics", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockRecipes.On("List", mock.Anything).Return(stored, nil)

		svc := newTestRecipeService(mockRecipes, new(MockIngredientRepository), new(MockDietaryRestrictionRepository), new(MockUserRepository), new(MockSearchClient))
		matched, err := svc.Search(context.Background(), FilterCriteria{IngredientNames: []string{"flour", "tomato"}})
		assert.NoError(t, err)
		assert.Len(t, matched, 2)
		assert.Equal(t, "Pancakes", matched[0].Name)
		assert.Equal(t, "Tomato Salad", matched[1].Name)
	})

	t.Run("restrictions exclude recipes with disallowed ingredients", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockRestrictions := new(MockDietaryRestrictionRepository)
		mockRecipes.On("List", mock.Anything).Return(stored, nil)
		mockRestrictions.On("FindByIDs", mock.Anything, []uint{1}).Return([]model.DietaryRestriction{
			{ID: 1, Name: "dairy free", DisallowedIngredients: ingredientsNamed("milk")},
		}, nil)

		svc := newTestRecipeService(mockRecipes, new(MockIngredientRepository), mockRestrictions, new(MockUserRepository), new(MockSearchClient))
		matched, err := svc.Search(context.Background(), FilterCriteria{RestrictionIDs: []uint{1}})
		assert.NoError(t, err)
		assert.Len(t, matched, 2)
		for _, recipe := range matched {
			assert.NotEqual(t, "Pancakes", recipe.Name)
		}
	})

	t.Run("restriction excludes a recipe even when the inclusion list matches it", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockRestrictions := new(MockDietaryRestrictionRepository)
		mockRecipes.On("List", mock.Anything).Return(stored, nil)
		mockRestrictions.On("FindByIDs", mock.Anything, []uint{1}).Return([]model.DietaryRestriction{
			{ID: 1, Name: "dairy free", DisallowedIngredients: ingredientsNamed("milk")},
		}, nil)

		svc := newTestRecipeService(mockRecipes, new(MockIngredientRepository), mockRestrictions, new(MockUserRepository), new(MockSearchClient))
		matched, err := svc.Search(context.Background(), FilterCriteria{
			IngredientNames: []string{"flour", "tomato"},
			RestrictionIDs:  []uint{1},
		})
		assert.NoError(t, err)
		// Pancakes matches "flour" but carries milk, so only the salad remains.
		assert.Len(t, matched, 1)
		assert.Equal(t, "Tomato Salad", matched[0].Name)
	})

	t.Run("unknown restriction id fails the search", func(t *testing.T) {
		mockRestrictions := new(MockDietaryRestrictionRepository)
		mockRestrictions.On("FindByIDs", mock.Anything, []uint{99}).Return([]model.DietaryRestriction{}, nil)

		svc := newTestRecipeService(new(MockRecipeRepository), new(MockIngredientRepository), mockRestrictions, new(MockUserRepository), new(MockSearchClient))
		_, err := svc.Search(context.Background(), FilterCriteria{RestrictionIDs: []uint{99}})
		assert.ErrorIs(t, err, apperrors.ErrRestrictionNotFound)
	})

	t.Run("query is a case-sensitive substring over name and instructions", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockRecipes.On("List", mock.Anything).Return(stored, nil)

		svc := newTestRecipeService(mockRecipes, new(MockIngredientRepository), new(MockDietaryRestrictionRepository), new(MockUserRepository), new(MockSearchClient))
		matched, err := svc.Search(context.Background(), FilterCriteria{Query: "rice"})
		assert.NoError(t, err)
		// Matches "Simmer rice slowly." but not "Tomato Salad".
		assert.Len(t, matched, 1)
		assert.Equal(t, "Congee", matched[0].Name)

		matched, err = svc.Search(context.Background(), FilterCriteria{Query: "pancakes"})
		assert.NoError(t, err)
		assert.Empty(t, matched)
	})
}

func TestRecipeService_Create(t *testing.T) {
	t.Run("missing instructions", func(t *testing.T) {
		svc := newTestRecipeService(new(MockRecipeRepository), new(MockIngredientRepository), new(MockDietaryRestrictionRepository), new(MockUserRepository), new(MockSearchClient))
		_, err := svc.Create(context.Background(), &model.Recipe{Name: "Toast"})
		assert.ErrorIs(t, err, apperrors.ErrMissingField)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockRecipes.On("ExistsByName", mock.Anything, "Toast").Return(true, nil)

		svc := newTestRecipeService(mockRecipes, new(MockIngredientRepository), new(MockDietaryRestrictionRepository), new(MockUserRepository), new(MockSearchClient))
		_, err := svc.Create(context.Background(), &model.Recipe{Name: "Toast", Instructions: "Toast the bread."})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateRecipe)
		mockRecipes.AssertExpectations(t)
	})

	t.Run("new recipe is written shell first, associations last", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockIngredients := new(MockIngredientRepository)
		canonical := ingredientsNamed("bread", "butter")

		mockRecipes.On("ExistsByName", mock.Anything, "Toast").Return(false, nil)
		mockRecipes.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRecipes.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Recipe) bool {
			// The shell insert must not carry ingredient associations.
			return r.Name == "Toast" && len(r.Ingredients) == 0
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Recipe).ID = 5
		}).Return(nil)
		mockIngredients.On("UpsertByName", mock.Anything, mock.Anything).Return(canonical, nil)
		mockRecipes.On("Save", mock.Anything, mock.MatchedBy(func(r *model.Recipe) bool {
			return r.ID == 5 && len(r.Ingredients) == 2
		})).Return(nil)
		mockRecipes.On("FindAllByNameIn", mock.Anything, []string{"Toast"}).Return([]model.Recipe{
			{ID: 5, Name: "Toast", Instructions: "Toast the bread.", Ingredients: canonical},
		}, nil)

		svc := newTestRecipeService(mockRecipes, mockIngredients, new(MockDietaryRestrictionRepository), new(MockUserRepository), new(MockSearchClient))
		created, err := svc.Create(context.Background(), &model.Recipe{
			Name:         "Toast",
			Instructions: "Toast the bread.",
			Ingredients:  []model.Ingredient{{Name: "bread"}, {Name: "butter"}},
		})
		assert.NoError(t, err)
		assert.Equal(t, uint(5), created.ID)
		assert.Len(t, created.Ingredients, 2)

		mockRecipes.AssertExpectations(t)
		mockIngredients.AssertExpectations(t)
	})
}

func TestRecipeService_Discover(t *testing.T) {
	t.Run("stored external ids resolve to the stored copy", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockIngredients := new(MockIngredientRepository)
		mockSearch := new(MockSearchClient)

		storedID := int64(100)
		stored := &model.Recipe{ID: 1, Name: "Stored Stew", SpoonacularID: &storedID}
		freshID := int64(200)
		fresh := model.Recipe{Name: "Fresh Frittata", SpoonacularID: &freshID, Ingredients: []model.Ingredient{{Name: "egg"}}}

		mockSearch.On("SearchIDs", mock.Anything, mock.Anything).Return([]int64{100, 200}, nil)
		mockRecipes.On("ExistsBySpoonacularID", mock.Anything, int64(100)).Return(true, nil)
		mockRecipes.On("FindBySpoonacularID", mock.Anything, int64(100)).Return(stored, nil)
		mockRecipes.On("ExistsBySpoonacularID", mock.Anything, int64(200)).Return(false, nil)
		mockSearch.On("Recipes", mock.Anything, []int64{200}).Return([]model.Recipe{fresh}, nil)

		mockRecipes.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRecipes.On("ExistsByName", mock.Anything, "Fresh Frittata").Return(false, nil)
		mockRecipes.On("Create", mock.Anything, mock.AnythingOfType("*model.Recipe")).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Recipe).ID = 2
		}).Return(nil)
		mockIngredients.On("UpsertByName", mock.Anything, mock.Anything).Return(ingredientsNamed("egg"), nil)
		mockRecipes.On("Save", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)
		mockRecipes.On("FindAllByNameIn", mock.Anything, []string{"Stored Stew", "Fresh Frittata"}).Return([]model.Recipe{
			*stored,
			{ID: 2, Name: "Fresh Frittata", SpoonacularID: &freshID},
		}, nil)

		svc := newTestRecipeService(mockRecipes, mockIngredients, new(MockDietaryRestrictionRepository), new(MockUserRepository), mockSearch)
		recipes, err := svc.Discover(context.Background(), spoonacular.Query{Query: "stew"})
		assert.NoError(t, err)
		assert.Len(t, recipes, 2)

		// Only the unknown recipe is inserted; the stored one is reused.
		mockRecipes.AssertNumberOfCalls(t, "Create", 1)
		mockRecipes.AssertExpectations(t)
		mockSearch.AssertExpectations(t)
	})

	t.Run("fetched recipe colliding with a stored name is skipped", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockIngredients := new(MockIngredientRepository)
		mockSearch := new(MockSearchClient)

		externalID := int64(300)
		fetched := model.Recipe{Name: "Stored Stew", Instructions: "Upstream rewrite.", SpoonacularID: &externalID}
		stored := model.Recipe{ID: 1, Name: "Stored Stew", Instructions: "Simmer for hours."}

		mockSearch.On("SearchIDs", mock.Anything, mock.Anything).Return([]int64{300}, nil)
		mockRecipes.On("ExistsBySpoonacularID", mock.Anything, int64(300)).Return(false, nil)
		mockSearch.On("Recipes", mock.Anything, []int64{300}).Return([]model.Recipe{fetched}, nil)

		mockRecipes.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRecipes.On("ExistsByName", mock.Anything, "Stored Stew").Return(true, nil)
		mockRecipes.On("FindAllByNameIn", mock.Anything, []string{"Stored Stew"}).Return([]model.Recipe{stored}, nil)

		svc := newTestRecipeService(mockRecipes, mockIngredients, new(MockDietaryRestrictionRepository), new(MockUserRepository), mockSearch)
		recipes, err := svc.Discover(context.Background(), spoonacular.Query{Query: "stew"})
		assert.NoError(t, err)

		// The stored row survives untouched; the fetched copy is never written.
		assert.Len(t, recipes, 1)
		assert.Equal(t, uint(1), recipes[0].ID)
		assert.Equal(t, "Simmer for hours.", recipes[0].Instructions)
		mockRecipes.AssertNumberOfCalls(t, "Create", 0)
		mockRecipes.AssertNumberOfCalls(t, "Save", 0)
		mockRecipes.AssertExpectations(t)
	})

	t.Run("duplicate names within a batch are persisted once", func(t *testing.T) {
		mockRecipes := new(MockRecipeRepository)
		mockIngredients := new(MockIngredientRepository)
		mockSearch := new(MockSearchClient)

		idA, idB := int64(201), int64(202)
		mockSearch.On("SearchIDs", mock.Anything, mock.Anything).Return([]int64{201, 202}, nil)
		mockRecipes.On("ExistsBySpoonacularID", mock.Anything, mock.Anything).Return(false, nil)
		mockSearch.On("Recipes", mock.Anything, []int64{201, 202}).Return([]model.Recipe{
			{Name: "Twin Tacos", SpoonacularID: &idA},
			{Name: "Twin Tacos", SpoonacularID: &idB},
		}, nil)

		mockRecipes.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRecipes.On("ExistsByName", mock.Anything, "Twin Tacos").Return(false, nil)
		mockRecipes.On("Create", mock.Anything, mock.AnythingOfType("*model.Recipe")).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Recipe).ID = 9
		}).Return(nil)
		mockIngredients.On("UpsertByName", mock.Anything, mock.Anything).Return([]model.Ingredient{}, nil)
		mockRecipes.On("Save", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)
		mockRecipes.On("FindAllByNameIn", mock.Anything, []string{"Twin Tacos"}).Return([]model.Recipe{
			{ID: 9, Name: "Twin Tacos", SpoonacularID: &idA},
		}, nil)

		svc := newTestRecipeService(mockRecipes, mockIngredients, new(MockDietaryRestrictionRepository), new(MockUserRepository), mockSearch)
		recipes, err := svc.Discover(context.Background(), spoonacular.Query{Query: "tacos"})
		assert.NoError(t, err)
		assert.Len(t, recipes, 1)

		mockRecipes.AssertNumberOfCalls(t, "Create", 1)
		mockRecipes.AssertExpectations(t)
	})

	t.Run("upstream failure surfaces as such", func(t *testing.T) {
		mockSearch := new(MockSearchClient)
		mockSearch.On("SearchIDs", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		svc := newTestRecipeService(new(MockRecipeRepository), new(MockIngredientRepository), new(MockDietaryRestrictionRepository), new(MockUserRepository), mockSearch)
		_, err := svc.Discover(context.Background(), spoonacular.Query{Query: "stew"})
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})
}

func TestRecipeService_Recommend(t *testing.T) {
	t.Run("seeds from a saved recipe when one exists", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockSearch := new(MockSearchClient)
		mockRecipes := new(MockRecipeRepository)

		savedID := int64(555)
		mockUsers.On("FindByID", mock.Anything, uint(7)).Return(&model.User{
			ID:           7,
			SavedRecipes: []model.Recipe{{ID: 1, Name: "Saved", SpoonacularID: &savedID}},
		}, nil)
		mockSearch.On("SimilarIDs", mock.Anything, int64(555)).Return([]int64{}, nil)
		mockSearch.On("Recipes", mock.Anything, mock.Anything).Return([]model.Recipe{}, nil)

		svc := newTestRecipeService(mockRecipes, new(MockIngredientRepository), new(MockDietaryRestrictionRepository), mockUsers, mockSearch)
		recipes, err := svc.Recommend(context.Background(), 7)
		assert.NoError(t, err)
		assert.Empty(t, recipes)
		mockSearch.AssertExpectations(t)
	})

	t.Run("falls back to the well-known seed recipe", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockSearch := new(MockSearchClient)

		mockUsers.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7}, nil)
		mockSearch.On("SimilarIDs", mock.Anything, int64(fallbackSeedRecipeID)).Return([]int64{}, nil)
		mockSearch.On("Recipes", mock.Anything, mock.Anything).Return([]model.Recipe{}, nil)

		svc := newTestRecipeService(new(MockRecipeRepository), new(MockIngredientRepository), new(MockDietaryRestrictionRepository), mockUsers, mockSearch)
		recipes, err := svc.Recommend(context.Background(), 7)
		assert.NoError(t, err)
		assert.Empty(t, recipes)
		mockSearch.AssertExpectations(t)
	})
}
