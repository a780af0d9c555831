// Package recipes declares the repository contract for user-owned recipes
// and their tag and ingredient links.
package recipes

import (
	"context"

	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

type Repository interface {
	// Create inserts the recipe row and fills in ID. Links are written
	// separately with SetTags and SetIngredients.
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	// Get returns the user's recipe with Tags and Ingredients loaded.
	Get(ctx context.Context, userID, id int64) (*models.Recipe, error)
	// List returns the user's recipes, newest id first, with links loaded.
	List(ctx context.Context, userID int64, filter models.RecipeFilter) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, userID, id int64) error
	// SetTags replaces the recipe's tag set.
	SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error
	// SetIngredients replaces the recipe's ingredient set.
	SetIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) error
	SetImage(ctx context.Context, userID, id int64, key string) error
}
