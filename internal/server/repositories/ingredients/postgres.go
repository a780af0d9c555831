package ingredients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/dbx"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

// PostgresRepository implements ingredient storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the ingredient and fills in its ID.
func (r *PostgresRepository) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	query :=
		`INSERT INTO ingredients (user_id, name)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	if err := r.db.QueryRowContext(ctx, query, ingredient.UserID, ingredient.Name).Scan(&ingredient.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ingredient, nil
}

// List returns the user's ingredients ordered by name descending,
// optionally only those attached to a recipe.
func (r *PostgresRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Ingredient, error) {
	query :=
		`SELECT t.id, t.user_id, t.name FROM ingredients t
		 WHERE t.user_id = $1
		 ORDER BY t.name DESC, t.id DESC
		 `
	if assignedOnly {
		query =
			`SELECT t.id, t.user_id, t.name FROM ingredients t
			 WHERE t.user_id = $1
			 AND EXISTS (SELECT 1 FROM recipe_ingredients l WHERE l.ingredient_id = t.id)
			 ORDER BY t.name DESC, t.id DESC
			 `
	}

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Ingredient, 0)
	for rows.Next() {
		t := &models.Ingredient{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

// Get returns the user's ingredient or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Ingredient, error) {
	query :=
		`SELECT id, user_id, name FROM ingredients
		 WHERE id = $1 AND user_id = $2
		 `

	t := &models.Ingredient{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&t.ID, &t.UserID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Update renames the ingredient. Returns common.ErrorNotFound when the
// user does not own it.
func (r *PostgresRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	query :=
		`UPDATE ingredients SET name = $3
		 WHERE id = $1 AND user_id = $2
		 `
	return execAffecting(ctx, r.db, query, ingredient.ID, ingredient.UserID, ingredient.Name)
}

// Delete removes the user's ingredient and, by cascade, its recipe links.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query :=
		`DELETE FROM ingredients
		 WHERE id = $1 AND user_id = $2
		 `
	return execAffecting(ctx, r.db, query, id, userID)
}

// FilterOwned returns the ids from the list that belong to userID.
func (r *PostgresRepository) FilterOwned(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	query :=
		`SELECT id FROM ingredients
		 WHERE user_id = $1 AND id = ANY($2)
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	owned := make([]int64, 0, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		owned = append(owned, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return owned, nil
}

// execAffecting runs a scoped write and reports ErrorNotFound when no row matched.
func execAffecting(ctx context.Context, db dbx.DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
