package models

import "github.com/dmitrijs2005/recipeapi/internal/money"

// Recipe is a user-owned recipe. Tags and Ingredients are the attached sets,
// ordered by id.
type Recipe struct {
	ID          int64
	UserID      int64
	Title       string
	TimeMinutes int
	Price       money.Price
	Link        string
	// Image is the object-storage key of the recipe photo, empty if none.
	Image       string
	Tags        []*Tag
	Ingredients []*Ingredient
}

func (r *Recipe) String() string {
	return r.Title
}

// TagIDs returns the ids of the attached tags.
func (r *Recipe) TagIDs() []int64 {
	ids := make([]int64, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IngredientIDs returns the ids of the attached ingredients.
func (r *Recipe) IngredientIDs() []int64 {
	ids := make([]int64, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}

// RecipeFilter narrows a recipe listing. Empty slices mean no constraint;
// a recipe matches when it carries any of the listed tags (and any of the
// listed ingredients, when both are given).
type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}
