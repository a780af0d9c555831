package inmemory

import (
	"context"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

type TagRepository struct {
	s *Store
}

func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tag.ID = r.s.nextID()
	r.s.tags[tag.ID] = &namedItem{id: tag.ID, userID: tag.UserID, name: tag.Name}
	return tag, nil
}

func (r *TagRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var keep func(int64) bool
	if assignedOnly {
		keep = func(id int64) bool {
			for _, rc := range r.s.recipes {
				if _, ok := rc.tags[id]; ok {
					return true
				}
			}
			return false
		}
	}

	items := listNamed(r.s.tags, userID, keep)
	out := make([]*models.Tag, 0, len(items))
	for _, it := range items {
		out = append(out, &models.Tag{ID: it.id, UserID: it.userID, Name: it.name})
	}
	return out, nil
}

func (r *TagRepository) Get(ctx context.Context, userID, id int64) (*models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.tags[id]
	if !ok || it.userID != userID {
		return nil, common.ErrorNotFound
	}
	return &models.Tag{ID: it.id, UserID: it.userID, Name: it.name}, nil
}

func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.tags[tag.ID]
	if !ok || it.userID != tag.UserID {
		return common.ErrorNotFound
	}
	it.name = tag.Name
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, userID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.tags[id]
	if !ok || it.userID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.tags, id)
	for _, rc := range r.s.recipes {
		delete(rc.tags, id)
	}
	return nil
}

func (r *TagRepository) FilterOwned(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return ownedIDs(r.s.tags, userID, ids), nil
}
