package model

import "time"

// FoodImage is an uploaded photo identified by its object-storage key, owned
// by the uploading user and tagged with the ingredients recognized in it.
type FoodImage struct {
	StorageKey string `json:"storageKey" gorm:"primaryKey;size:255"`
	URL        string `json:"url" gorm:"size:2048;not null"`

	UploadedByID uint `json:"uploadedById" gorm:"not null;index"`
	UploadedBy   User `json:"-" gorm:"foreignKey:UploadedByID"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Ingredients []Ingredient `json:"ingredients" gorm:"many2many:food_image_ingredients"`
}
