package model

import "time"

// User stores account information along with the user's personal preferences:
// favorite ingredients, saved recipes and dietary restrictions.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string `json:"firstName" gorm:"size:255;not null"`
	LastName     string `json:"lastName" gorm:"size:255;not null"`
	BirthDate    Date   `json:"birthDate" gorm:"type:date;not null"`

	// URL of the stored profile picture object; empty until one is uploaded.
	ProfilePicture string `json:"profilePicture,omitempty" gorm:"size:512"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	FavoriteIngredients []Ingredient         `json:"favoriteIngredients" gorm:"many2many:user_favorite_ingredients"`
	SavedRecipes        []Recipe             `json:"savedRecipes" gorm:"many2many:user_saved_recipes"`
	DietaryRestrictions []DietaryRestriction `json:"dietaryRestrictions" gorm:"many2many:user_dietary_restrictions"`
}
