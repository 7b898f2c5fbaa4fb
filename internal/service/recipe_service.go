package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"gorecipe/internal/cache"
	apperrors "gorecipe/internal/errors"
	"gorecipe/internal/model"
	"gorecipe/internal/repository"
	"gorecipe/internal/spoonacular"
)

const (
	recipeCacheTTL  = 5 * time.Minute
	exploreCacheTTL = 10 * time.Minute
	exploreCacheKey = "explore_page"

	// discoverResultCount is how many external results a discover search asks for.
	discoverResultCount = 25
	// exploreBucketCount is how many recipes each explore bucket holds.
	exploreBucketCount = 10
	// quickPrepTimeMax bounds prep time for the explore "quick" bucket.
	quickPrepTimeMax = 30

	// fallbackSeedRecipeID seeds recommendations for users with no saved
	// recipes. It is a well-known Spoonacular recipe id.
	fallbackSeedRecipeID = 156992
)

// FilterCriteria are the optional criteria of a local recipe search. At least
// one must be supplied.
type FilterCriteria struct {
	IngredientNames []string
	RestrictionIDs  []uint
	Query           string
}

func (c FilterCriteria) empty() bool {
	return len(c.IngredientNames) == 0 && len(c.RestrictionIDs) == 0 && c.Query == ""
}

// RecipeService exposes recipe CRUD, local filtering and the Spoonacular-backed
// discovery flows.
type RecipeService interface {
	Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	Get(ctx context.Context, id uint) (*model.Recipe, error)
	List(ctx context.Context) ([]model.Recipe, error)
	Delete(ctx context.Context, id uint) error
	Ingredients(ctx context.Context) ([]model.Ingredient, error)

	Search(ctx context.Context, criteria FilterCriteria) ([]model.Recipe, error)
	Discover(ctx context.Context, q spoonacular.Query) ([]model.Recipe, error)
	Explore(ctx context.Context) (map[string][]model.Recipe, error)
	Recommend(ctx context.Context, userID uint) ([]model.Recipe, error)
}

type recipeService struct {
	recipes      repository.RecipeRepository
	ingredients  repository.IngredientRepository
	restrictions repository.DietaryRestrictionRepository
	users        repository.UserRepository
	search       spoonacular.Client
	cache        *cache.Client
}

// NewRecipeService builds a RecipeService.
func NewRecipeService(
	recipes repository.RecipeRepository,
	ingredients repository.IngredientRepository,
	restrictions repository.DietaryRestrictionRepository,
	users repository.UserRepository,
	search spoonacular.Client,
	cacheClient *cache.Client,
) RecipeService {
	return &recipeService{
		recipes:      recipes,
		ingredients:  ingredients,
		restrictions: restrictions,
		users:        users,
		search:       search,
		cache:        cacheClient,
	}
}

func (s *recipeService) cacheKey(id uint) string {
	return fmt.Sprintf("recipe:%d", id)
}

// Create persists a manually submitted recipe. Unlike batch reconciliation, a
// name collision here is an error, not a silent skip.
func (s *recipeService) Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if recipe.Name == "" || recipe.Instructions == "" {
		return nil, apperrors.ErrMissingField
	}

	exists, err := s.recipes.ExistsByName(ctx, recipe.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateRecipe
	}

	saved, err := s.persistBatch(ctx, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	if len(saved) == 0 {
		return nil, apperrors.ErrDuplicateRecipe
	}
	return &saved[0], nil
}

func (s *recipeService) Get(ctx context.Context, id uint) (*model.Recipe, error) {
	var cached model.Recipe
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), recipe, recipeCacheTTL)
	return recipe, nil
}

func (s *recipeService) List(ctx context.Context) ([]model.Recipe, error) {
	return s.recipes.List(ctx)
}

func (s *recipeService) Delete(ctx context.Context, id uint) error {
	exists, err := s.recipes.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrRecipeNotFound
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *recipeService) Ingredients(ctx context.Context) ([]model.Ingredient, error) {
	return s.ingredients.List(ctx)
}

// Search filters the stored recipe collection in memory. Empty criteria is a
// rejection, never "match all".
func (s *recipeService) Search(ctx context.Context, criteria FilterCriteria) ([]model.Recipe, error) {
	if criteria.empty() {
		return nil, apperrors.ErrEmptySearchCriteria
	}

	disallowed := make(map[string]bool)
	if len(criteria.RestrictionIDs) > 0 {
		restrictions, err := s.restrictions.FindByIDs(ctx, criteria.RestrictionIDs)
		if err != nil {
			return nil, err
		}
		if len(restrictions) < len(uniqueIDs(criteria.RestrictionIDs)) {
			return nil, apperrors.ErrRestrictionNotFound
		}
		for _, restriction := range restrictions {
			for _, ing := range restriction.DisallowedIngredients {
				disallowed[ing.Name] = true
			}
		}
	}

	wanted := make(map[string]bool, len(criteria.IngredientNames))
	for _, name := range criteria.IngredientNames {
		wanted[name] = true
	}

	all, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]model.Recipe, 0, len(all))
	for _, recipe := range all {
		if containsAny(recipe.Ingredients, disallowed) {
			continue
		}
		// OR semantics: any one of the requested ingredients qualifies.
		if len(wanted) > 0 && !containsAny(recipe.Ingredients, wanted) {
			continue
		}
		if criteria.Query != "" &&
			!strings.Contains(recipe.Name, criteria.Query) &&
			!strings.Contains(recipe.Instructions, criteria.Query) {
			continue
		}
		matched = append(matched, recipe)
	}
	return matched, nil
}

// Discover searches the external recipe API and reconciles the results into
// local storage.
func (s *recipeService) Discover(ctx context.Context, q spoonacular.Query) ([]model.Recipe, error) {
	if q.Number == 0 {
		q.Number = discoverResultCount
	}
	ids, err := s.search.SearchIDs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	return s.reconcile(ctx, ids)
}

// Explore assembles the explore page: themed external buckets plus a "quick"
// bucket of stored low-prep-time recipes. The whole payload is cached.
func (s *recipeService) Explore(ctx context.Context) (map[string][]model.Recipe, error) {
	var cached map[string][]model.Recipe
	if s.cache.GetJSON(ctx, exploreCacheKey, &cached) {
		return cached, nil
	}

	buckets := []struct {
		key   string
		query spoonacular.Query
	}{
		{"vegan", spoonacular.Query{Diet: "vegan", Number: exploreBucketCount}},
		{"dinner", spoonacular.Query{Type: "main course", Number: exploreBucketCount}},
		{"breakfast", spoonacular.Query{Type: "breakfast", Number: exploreBucketCount}},
		{"dessert", spoonacular.Query{Type: "dessert", Number: exploreBucketCount}},
	}

	page := make(map[string][]model.Recipe, len(buckets)+1)
	for _, bucket := range buckets {
		ids, err := s.search.SearchIDs(ctx, bucket.query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
		}
		recipes, err := s.reconcile(ctx, ids)
		if err != nil {
			return nil, err
		}
		page[bucket.key] = recipes
	}

	all, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	quick := make([]model.Recipe, 0, quickPrepTimeMax)
	for _, recipe := range all {
		if recipe.PrepTime <= quickPrepTimeMax {
			quick = append(quick, recipe)
		}
		if len(quick) == exploreBucketCount {
			break
		}
	}
	page["quick"] = quick

	s.cache.SetJSON(ctx, exploreCacheKey, page, exploreCacheTTL)
	return page, nil
}

// Recommend returns recipes similar to one of the user's saved recipes, or to
// a fixed seed recipe when the user has saved none.
func (s *recipeService) Recommend(ctx context.Context, userID uint) ([]model.Recipe, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	seed := int64(fallbackSeedRecipeID)
	var candidates []int64
	for _, recipe := range user.SavedRecipes {
		if recipe.SpoonacularID != nil {
			candidates = append(candidates, *recipe.SpoonacularID)
		}
	}
	if len(candidates) > 0 {
		seed = candidates[rand.Intn(len(candidates))]
	}

	ids, err := s.search.SimilarIDs(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	return s.reconcile(ctx, ids)
}

// reconcile maps a set of externally found recipe ids onto persisted rows:
// ids already stored resolve to the stored copy (which stays authoritative),
// the rest are bulk-fetched and persisted, and the combined set is reloaded
// by name so callers always observe canonical rows.
func (s *recipeService) reconcile(ctx context.Context, ids []int64) ([]model.Recipe, error) {
	var known []model.Recipe
	var unknown []int64
	for _, id := range ids {
		exists, err := s.recipes.ExistsBySpoonacularID(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			stored, err := s.recipes.FindBySpoonacularID(ctx, id)
			if err != nil {
				return nil, err
			}
			known = append(known, *stored)
			continue
		}
		unknown = append(unknown, id)
	}

	fetched, err := s.search.Recipes(ctx, unknown)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	return s.persistBatch(ctx, append(known, fetched...))
}

// persistBatch stores every not-yet-known recipe of the batch and returns the
// full batch as canonical rows loaded back by name. A recipe whose name is
// already stored is skipped, never overwritten. New recipes are written in
// three steps inside one transaction: the recipe shell without ingredients
// first, the ingredient rows second, the association write last, so the join
// table only ever references rows with stable ids.
func (s *recipeService) persistBatch(ctx context.Context, batch []model.Recipe) ([]model.Recipe, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(batch))
	seen := make(map[string]bool, len(batch))
	for _, recipe := range batch {
		if !seen[recipe.Name] {
			seen[recipe.Name] = true
			names = append(names, recipe.Name)
		}
	}

	err := s.recipes.WithTransaction(ctx, func(ctx context.Context, recipes repository.RecipeRepository, ingredients repository.IngredientRepository) error {
		inserted := make(map[string]bool, len(batch))
		for i := range batch {
			recipe := batch[i]
			if recipe.ID != 0 || inserted[recipe.Name] {
				continue
			}

			exists, err := recipes.ExistsByName(ctx, recipe.Name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			pending := recipe.Ingredients
			recipe.Ingredients = nil
			if err := recipes.Create(ctx, &recipe); err != nil {
				return err
			}

			canonical, err := ingredients.UpsertByName(ctx, pending)
			if err != nil {
				return err
			}

			recipe.Ingredients = canonical
			if err := recipes.Save(ctx, &recipe); err != nil {
				return err
			}
			inserted[recipe.Name] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.recipes.FindAllByNameIn(ctx, names)
}

func containsAny(ingredients []model.Ingredient, names map[string]bool) bool {
	if len(names) == 0 {
		return false
	}
	for _, ing := range ingredients {
		if names[ing.Name] {
			return true
		}
	}
	return false
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
