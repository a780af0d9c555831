package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/recipeapi/internal/dbx"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/inmemory"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/tags"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/users"
)

// MemoryRepositoryManager serves every repository from one shared
// inmemory.Store. It is used with a nil *sql.DB.
type MemoryRepositoryManager struct {
	store *inmemory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: inmemory.NewStore()}
}

// RunMigrations is a no-op: the store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.store.Users()
}

func (m *MemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.store.RefreshTokens()
}

func (m *MemoryRepositoryManager) Tags(dbx.DBTX) tags.Repository {
	return m.store.Tags()
}

func (m *MemoryRepositoryManager) Ingredients(dbx.DBTX) ingredients.Repository {
	return m.store.Ingredients()
}

func (m *MemoryRepositoryManager) Recipes(dbx.DBTX) recipes.Repository {
	return m.store.Recipes()
}
