package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateRecipe = "recipe created successfully"
	MessageSuccessUpdateRecipe = "recipe updated successfully"
	MessageSuccessDeleteRecipe = "recipe deleted successfully"
	MessageSuccessGetRecipes   = "success get recipes"
	MessageSuccessGetRecipe    = "success get recipe detail"
	MessageSuccessAddRelation  = "recipe added successfully"
	MessageSuccessShoppingList = "shopping list ready"
	MessageSuccessMailShopping = "shopping list sent"

	MessageFailedCreateRecipe = "failed to create recipe"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedDeleteRecipe = "failed to delete recipe"
	MessageFailedGetRecipes   = "failed to get recipes"
	MessageFailedGetRecipe    = "failed to get recipe detail"
	MessageFailedShoppingList = "failed to build shopping list"
	MessageFailedMailShopping = "failed to send shopping list"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrNotRecipeAuthor     = errors.New("only the author can modify this recipe")
	ErrUnknownIngredient   = errors.New("ingredient does not exist")
	ErrUnknownTag          = errors.New("tag does not exist")
	ErrDuplicateIngredient = errors.New("ingredient listed more than once")
	ErrDuplicateTag        = errors.New("tag listed more than once")
	ErrInvalidAmount       = errors.New("amount must be at least 1")
	ErrInvalidCookingTime  = errors.New("cooking time must be at least 1 minute")
	ErrMissingField        = errors.New("required field is missing")
)

type (
	IngredientLineRequest struct {
		IngredientID string `json:"id" validate:"required,uuid"`
		Amount       int    `json:"amount" validate:"required"`
	}

	ComposeRecipeRequest struct {
		Name        string                  `json:"name" validate:"required"`
		Text        string                  `json:"text" validate:"required"`
		CookingTime int                     `json:"cooking_time" validate:"required"`
		Image       string                  `json:"image,omitempty"`
		TagIDs      []string                `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientLineRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	TagResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Author           UserResponse               `json:"author"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		Image            string                     `json:"image,omitempty"`
		Tags             []TagResponse              `json:"tags"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	// RecipeShortResponse is the compact representation returned when a
	// recipe is added to favorites or the shopping cart.
	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeFilter narrows the recipe list. FavoritedBy and InCartOf hold
	// the requesting user's id when the matching query flag is set.
	RecipeFilter struct {
		Page        int
		Limit       int
		AuthorID    string
		TagSlugs    []string
		FavoritedBy string
		InCartOf    string
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}
)
