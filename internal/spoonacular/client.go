package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gorecipe/internal/model"
)

// Query holds the complexSearch parameters the application exposes.
type Query struct {
	Query        string
	Cuisine      string
	Diet         string
	Intolerances string
	Ingredients  string
	Type         string
	Number       int
}

// Client is the narrow contract with the recipe search collaborator. The
// search API returns only recipe ids; full recipe records come from a second
// bulk lookup.
type Client interface {
	SearchIDs(ctx context.Context, q Query) ([]int64, error)
	Recipes(ctx context.Context, ids []int64) ([]model.Recipe, error)
	SimilarIDs(ctx context.Context, spoonacularID int64) ([]int64, error)
}

// HTTPClient implements Client against the Spoonacular API on RapidAPI.
type HTTPClient struct {
	apiKey string
	host   string
	http   *http.Client
}

var _ Client = (*HTTPClient)(nil)

// New builds a Spoonacular client.
func New(apiKey, host string) *HTTPClient {
	return &HTTPClient{
		apiKey: apiKey,
		host:   host,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	u := url.URL{
		Scheme:   "https",
		Host:     c.host,
		Path:     path,
		RawQuery: params.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("X-RapidAPI-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("spoonacular request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spoonacular request %s failed with status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

type idResult struct {
	ID int64 `json:"id"`
}

// SearchIDs runs a complexSearch and returns the matching recipe ids.
func (c *HTTPClient) SearchIDs(ctx context.Context, q Query) ([]int64, error) {
	params := url.Values{}
	params.Set("instructionsRequired", "true")

	if q.Query != "" {
		params.Set("query", q.Query)
	}
	if q.Cuisine != "" {
		params.Set("cuisine", q.Cuisine)
	}
	if q.Diet != "" {
		params.Set("diet", q.Diet)
	}
	if q.Intolerances != "" {
		params.Set("intolerances", q.Intolerances)
	}
	if q.Ingredients != "" {
		params.Set("includeIngredients", q.Ingredients)
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Number > 0 {
		params.Set("number", strconv.Itoa(q.Number))
	}

	var parsed struct {
		Results []idResult `json:"results"`
	}
	if err := c.get(ctx, "/recipes/complexSearch", params, &parsed); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// recipeInfo mirrors the informationBulk response. Instructions is a pointer
// because the API returns null for recipes without any.
type recipeInfo struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	ReadyInMinutes  int      `json:"readyInMinutes"`
	Servings        int      `json:"servings"`
	PricePerServing float64  `json:"pricePerServing"`
	SourceURL       string   `json:"sourceUrl"`
	Image           *string  `json:"image"`
	Instructions    *string  `json:"instructions"`
	Ingredients     []struct {
		Name     string `json:"name"`
		Original string `json:"original"`
	} `json:"extendedIngredients"`
}

// Recipes fetches full recipe records for the given ids in one bulk request.
// Recipes whose instructions are null are dropped without failing the batch.
func (c *HTTPClient) Recipes(ctx context.Context, ids []int64) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{}
	params.Set("ids", strings.Join(idStrings, ","))

	var parsed []recipeInfo
	if err := c.get(ctx, "/recipes/informationBulk", params, &parsed); err != nil {
		return nil, err
	}

	recipes := make([]model.Recipe, 0, len(parsed))
	for _, info := range parsed {
		if info.Instructions == nil {
			continue
		}
		recipes = append(recipes, toRecipe(info))
	}
	return recipes, nil
}

// SimilarIDs returns ids of recipes similar to the given one.
func (c *HTTPClient) SimilarIDs(ctx context.Context, spoonacularID int64) ([]int64, error) {
	var parsed []idResult
	path := fmt.Sprintf("/recipes/%d/similar", spoonacularID)
	if err := c.get(ctx, path, url.Values{}, &parsed); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(parsed))
	for _, r := range parsed {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func toRecipe(info recipeInfo) model.Recipe {
	id := info.ID
	recipe := model.Recipe{
		SpoonacularID:   &id,
		Name:            info.Title,
		Instructions:    *info.Instructions,
		PrepTime:        info.ReadyInMinutes,
		Servings:        info.Servings,
		PricePerServing: decimal.NewFromFloat(info.PricePerServing).Round(2),
		SourceURL:       info.SourceURL,
	}
	if info.Image != nil {
		recipe.ImageURL = *info.Image
	}
	for _, ing := range info.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, model.Ingredient{Name: ing.Name})
		recipe.VerboseIngredients = append(recipe.VerboseIngredients, ing.Original)
	}
	return recipe
}
