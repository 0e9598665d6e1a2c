package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    uuid.UUID `gorm:"not null" json:"author_id"`
	Name        string    `gorm:"not null" json:"name"`
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	ImageURL    string    `json:"image,omitempty"`

	Author      *User               `gorm:"foreignKey:AuthorID"`
	Tags        []*Tag              `gorm:"many2many:recipe_tags" json:"tags,omitempty"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`

	Timestamp
}

// RecipeIngredient is owned by its recipe and replaced wholesale on every
// recipe update. The (recipe, ingredient) pair is unique.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"uniqueIndex:idx_recipe_ingredient;not null" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"uniqueIndex:idx_recipe_ingredient;not null" json:"ingredient_id"`
	Amount       int       `gorm:"not null" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// UserRelation is a boolean membership fact between a user and a target:
// a favorite or shopping cart recipe, or a followed author. The composite
// unique index is what keeps concurrent adds down to a single row.
type UserRelation struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_user_relation;not null" json:"user_id"`
	TargetID  uuid.UUID `gorm:"uniqueIndex:idx_user_relation;not null" json:"target_id"`
	Kind      string    `gorm:"uniqueIndex:idx_user_relation;not null" json:"kind"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User *User `gorm:"foreignKey:UserID"`
}

type ShortLink struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID `gorm:"uniqueIndex;not null" json:"recipe_id"`
	Code     string    `gorm:"uniqueIndex;not null" json:"code"`
	FullURL  string    `gorm:"not null" json:"full_url"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID"`

	Timestamp
}
