package inmemory

import (
	"context"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

type IngredientRepository struct {
	s *Store
}

func (r *IngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ingredient.ID = r.s.nextID()
	r.s.ingredients[ingredient.ID] = &namedItem{id: ingredient.ID, userID: ingredient.UserID, name: ingredient.Name}
	return ingredient, nil
}

func (r *IngredientRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var keep func(int64) bool
	if assignedOnly {
		keep = func(id int64) bool {
			for _, rc := range r.s.recipes {
				if _, ok := rc.ingredients[id]; ok {
					return true
				}
			}
			return false
		}
	}

	items := listNamed(r.s.ingredients, userID, keep)
	out := make([]*models.Ingredient, 0, len(items))
	for _, it := range items {
		out = append(out, &models.Ingredient{ID: it.id, UserID: it.userID, Name: it.name})
	}
	return out, nil
}

func (r *IngredientRepository) Get(ctx context.Context, userID, id int64) (*models.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.ingredients[id]
	if !ok || it.userID != userID {
		return nil, common.ErrorNotFound
	}
	return &models.Ingredient{ID: it.id, UserID: it.userID, Name: it.name}, nil
}

func (r *IngredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.ingredients[ingredient.ID]
	if !ok || it.userID != ingredient.UserID {
		return common.ErrorNotFound
	}
	it.name = ingredient.Name
	return nil
}

func (r *IngredientRepository) Delete(ctx context.Context, userID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.ingredients[id]
	if !ok || it.userID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.ingredients, id)
	for _, rc := range r.s.recipes {
		delete(rc.ingredients, id)
	}
	return nil
}

func (r *IngredientRepository) FilterOwned(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return ownedIDs(r.s.ingredients, userID, ids), nil
}
