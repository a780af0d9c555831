// Package inmemory keeps users, tokens, tags, ingredients and recipes in
// process memory. It backs the "memory" storage mode and end-to-end tests.
// Writes are not transactional: a failed multi-step operation may leave its
// earlier steps applied.
package inmemory

import (
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

type namedItem struct {
	id     int64
	userID int64
	name   string
}

type recipeRow struct {
	recipe      models.Recipe
	tags        map[int64]struct{}
	ingredients map[int64]struct{}
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	seq int64

	users         map[int64]*models.User
	refreshTokens map[string]*models.RefreshToken
	tags          map[int64]*namedItem
	ingredients   map[int64]*namedItem
	recipes       map[int64]*recipeRow

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
		tags:          make(map[int64]*namedItem),
		ingredients:   make(map[int64]*namedItem),
		recipes:       make(map[int64]*recipeRow),
		now:           time.Now,
	}
}

// nextID must be called with mu held for writing.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) RefreshTokens() *RefreshTokenRepository { return &RefreshTokenRepository{s: s} }
func (s *Store) Tags() *TagRepository                   { return &TagRepository{s: s} }
func (s *Store) Ingredients() *IngredientRepository     { return &IngredientRepository{s: s} }
func (s *Store) Recipes() *RecipeRepository             { return &RecipeRepository{s: s} }

// ownedIDs returns the ids in want that belong to userID, ascending.
func ownedIDs(items map[int64]*namedItem, userID int64, want []int64) []int64 {
	out := make([]int64, 0, len(want))
	seen := make(map[int64]struct{}, len(want))
	for _, id := range want {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if it, ok := items[id]; ok && it.userID == userID {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// listNamed returns the user's items ordered by name then id, both descending.
func listNamed(items map[int64]*namedItem, userID int64, keep func(id int64) bool) []*namedItem {
	out := make([]*namedItem, 0)
	for _, it := range items {
		if it.userID != userID {
			continue
		}
		if keep != nil && !keep(it.id) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].name != out[j].name {
			return out[i].name > out[j].name
		}
		return out[i].id > out[j].id
	})
	return out
}
