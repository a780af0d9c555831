// Package repomanager vends repository implementations for the configured
// storage backend.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/recipeapi/internal/dbx"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/tags"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/users"
)

// RepositoryManager binds repositories to a DBTX handle, which is either
// the pool or an open transaction. Memory-backed managers ignore the handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Tags(db dbx.DBTX) tags.Repository
	Ingredients(db dbx.DBTX) ingredients.Repository
	Recipes(db dbx.DBTX) recipes.Repository
}
