// Package tags declares the repository contract for user-owned tags.
package tags

import (
	"context"

	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

// Repository stores tags. Every read and write is scoped to the owning user;
// records of other users behave as if they did not exist.
type Repository interface {
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	// List returns the user's tags ordered by name descending. When
	// assignedOnly is set, only tags attached to at least one recipe are
	// returned, each once.
	List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Tag, error)
	Get(ctx context.Context, userID, id int64) (*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, userID, id int64) error
	// FilterOwned returns the subset of ids owned by userID.
	FilterOwned(ctx context.Context, userID int64, ids []int64) ([]int64, error)
}
