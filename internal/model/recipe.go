package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VerboseIngredients keeps the original quantity+ingredient phrases exactly as
// supplied by the recipe source ("2 cups flour"). Stored as a JSON text column.
type VerboseIngredients []string

// Value implements driver.Valuer.
func (v VerboseIngredients) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (v *VerboseIngredients) Scan(value interface{}) error {
	switch data := value.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	default:
		return fmt.Errorf("cannot scan %T into VerboseIngredients", value)
	}
}

// Recipe is a shared reference entity, not owned by any single user. Name is
// unique; a duplicate insert means "already exists", never a second row.
type Recipe struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// SpoonacularID is the external source id when the recipe was imported
	// from the Spoonacular API. Unique when present.
	SpoonacularID *int64 `json:"spoonacularId,omitempty" gorm:"uniqueIndex"`

	Name         string `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Instructions string `json:"instructions" gorm:"type:text;not null"`

	// PrepTime is how many minutes the recipe takes to prepare.
	PrepTime        int             `json:"prepTime"`
	Servings        int             `json:"servings,omitempty"`
	PricePerServing decimal.Decimal `json:"pricePerServing" gorm:"type:decimal(10,2)"`

	ImageURL  string `json:"imageURL,omitempty" gorm:"size:2048"`
	VideoURL  string `json:"videoURL,omitempty" gorm:"size:2048"`
	SourceURL string `json:"sourceURL,omitempty" gorm:"size:2048"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Ingredients        []Ingredient       `json:"ingredients" gorm:"many2many:recipe_ingredients"`
	VerboseIngredients VerboseIngredients `json:"verboseIngredients" gorm:"type:text"`
}

// HasIngredient reports whether the recipe's ingredient set contains name.
func (r *Recipe) HasIngredient(name string) bool {
	for _, ing := range r.Ingredients {
		if ing.Name == name {
			return true
		}
	}
	return false
}
