package model

// RecipeCalendarItem schedules one recipe for one user on one date. The same
// recipe may be scheduled on any number of dates; no uniqueness is enforced.
type RecipeCalendarItem struct {
	ID uint `json:"id" gorm:"primaryKey"`

	UserID uint `json:"userId" gorm:"not null;index"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	RecipeID uint   `json:"recipeId" gorm:"not null;index"`
	Recipe   Recipe `json:"recipe" gorm:"foreignKey:RecipeID"`

	Date Date `json:"date" gorm:"type:date;not null"`
}
