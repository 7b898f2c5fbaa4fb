package model

// Ingredient is a single named ingredient (e.g. tomato, steak, flour) that may
// be referenced by recipes, dietary restrictions and recognized food images.
type Ingredient struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:255;not null"`
}
