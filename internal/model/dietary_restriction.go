package model

// DietaryRestriction is a named exclusion rule (e.g. Halal, Vegan, Gluten Free)
// listing ingredients a user with the restriction cannot consume.
type DietaryRestriction struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:255;not null"`

	// Relations
	DisallowedIngredients []Ingredient `json:"disallowedIngredients" gorm:"many2many:restriction_disallowed_ingredients"`
}
