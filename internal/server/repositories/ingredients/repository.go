// Package ingredients declares the repository contract for user-owned ingredients.
package ingredients

import (
	"context"

	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

// Repository stores ingredients. Every read and write is scoped to the owning user;
// records of other users behave as if they did not exist.
type Repository interface {
	Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	// List returns the user's ingredients ordered by name descending. When
	// assignedOnly is set, only ingredients attached to at least one recipe are
	// returned, each once.
	List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Ingredient, error)
	Get(ctx context.Context, userID, id int64) (*models.Ingredient, error)
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, userID, id int64) error
	// FilterOwned returns the subset of ids owned by userID.
	FilterOwned(ctx context.Context, userID int64, ids []int64) ([]int64, error)
}
