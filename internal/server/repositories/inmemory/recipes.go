package inmemory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

type RecipeRepository struct {
	s *Store
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func containsAny(set map[int64]struct{}, ids []int64) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(set))
	for id := range set {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// materialize must be called with the store lock held.
func (r *RecipeRepository) materialize(row *recipeRow) *models.Recipe {
	rc := row.recipe
	rc.Tags = make([]*models.Tag, 0, len(row.tags))
	for _, id := range sortedKeys(row.tags) {
		if t, ok := r.s.tags[id]; ok {
			rc.Tags = append(rc.Tags, &models.Tag{ID: t.id, UserID: t.userID, Name: t.name})
		}
	}
	rc.Ingredients = make([]*models.Ingredient, 0, len(row.ingredients))
	for _, id := range sortedKeys(row.ingredients) {
		if i, ok := r.s.ingredients[id]; ok {
			rc.Ingredients = append(rc.Ingredients, &models.Ingredient{ID: i.id, UserID: i.userID, Name: i.name})
		}
	}
	return &rc
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	recipe.ID = r.s.nextID()
	row := &recipeRow{
		recipe:      *recipe,
		tags:        map[int64]struct{}{},
		ingredients: map[int64]struct{}{},
	}
	row.recipe.Tags = nil
	row.recipe.Ingredients = nil
	r.s.recipes[recipe.ID] = row
	return recipe, nil
}

func (r *RecipeRepository) Get(ctx context.Context, userID, id int64) (*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.recipes[id]
	if !ok || row.recipe.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return r.materialize(row), nil
}

func (r *RecipeRepository) List(ctx context.Context, userID int64, filter models.RecipeFilter) ([]*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Recipe, 0)
	for _, row := range r.s.recipes {
		if row.recipe.UserID != userID {
			continue
		}
		if len(filter.TagIDs) > 0 && !containsAny(row.tags, filter.TagIDs) {
			continue
		}
		if len(filter.IngredientIDs) > 0 && !containsAny(row.ingredients, filter.IngredientIDs) {
			continue
		}
		out = append(out, r.materialize(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// scoped must be called with the store lock held.
func (r *RecipeRepository) scoped(userID, id int64) (*recipeRow, error) {
	row, ok := r.s.recipes[id]
	if !ok || row.recipe.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return row, nil
}

func (r *RecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, err := r.scoped(recipe.UserID, recipe.ID)
	if err != nil {
		return err
	}
	row.recipe.Title = recipe.Title
	row.recipe.TimeMinutes = recipe.TimeMinutes
	row.recipe.Price = recipe.Price
	row.recipe.Link = recipe.Link
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, userID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.scoped(userID, id); err != nil {
		return err
	}
	delete(r.s.recipes, id)
	return nil
}

func (r *RecipeRepository) SetImage(ctx context.Context, userID, id int64, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, err := r.scoped(userID, id)
	if err != nil {
		return err
	}
	row.recipe.Image = key
	return nil
}

func (r *RecipeRepository) SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.recipes[recipeID]
	if !ok {
		return common.ErrorNotFound
	}
	row.tags = idSet(tagIDs)
	return nil
}

func (r *RecipeRepository) SetIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.recipes[recipeID]
	if !ok {
		return common.ErrorNotFound
	}
	row.ingredients = idSet(ingredientIDs)
	return nil
}
