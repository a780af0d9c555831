package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/dbx"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

// PostgresRepository implements recipe storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recipeColumns = `r.id, r.user_id, r.title, r.time_minutes, r.price_cents, r.link, r.image`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row scanner) (*models.Recipe, error) {
	rc := &models.Recipe{Tags: []*models.Tag{}, Ingredients: []*models.Ingredient{}}
	err := row.Scan(&rc.ID, &rc.UserID, &rc.Title, &rc.TimeMinutes, &rc.Price, &rc.Link, &rc.Image)
	return rc, err
}

// Create inserts the recipe row and fills in its ID.
func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipes (user_id, title, time_minutes, price_cents, link, image)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		recipe.UserID, recipe.Title, recipe.TimeMinutes, int64(recipe.Price), recipe.Link, recipe.Image).
		Scan(&recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return recipe, nil
}

// Get returns the user's recipe with tags and ingredients loaded, or
// common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Recipe, error) {
	query :=
		`SELECT ` + recipeColumns + ` FROM recipes r
		 WHERE r.id = $1 AND r.user_id = $2
		 `

	rc, err := scanRecipe(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadLinks(ctx, []*models.Recipe{rc}); err != nil {
		return nil, err
	}
	return rc, nil
}

// List returns the user's recipes matching filter, highest id first.
func (r *PostgresRepository) List(ctx context.Context, userID int64, filter models.RecipeFilter) ([]*models.Recipe, error) {
	var b strings.Builder
	args := []any{userID}

	b.WriteString(`SELECT ` + recipeColumns + ` FROM recipes r WHERE r.user_id = $1`)
	if len(filter.TagIDs) > 0 {
		args = append(args, filter.TagIDs)
		fmt.Fprintf(&b, ` AND EXISTS (SELECT 1 FROM recipe_tags l WHERE l.recipe_id = r.id AND l.tag_id = ANY($%d))`, len(args))
	}
	if len(filter.IngredientIDs) > 0 {
		args = append(args, filter.IngredientIDs)
		fmt.Fprintf(&b, ` AND EXISTS (SELECT 1 FROM recipe_ingredients l WHERE l.recipe_id = r.id AND l.ingredient_id = ANY($%d))`, len(args))
	}
	b.WriteString(` ORDER BY r.id DESC`)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Recipe, 0)
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadLinks(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// loadLinks fills Tags and Ingredients of the given recipes with two queries.
func (r *PostgresRepository) loadLinks(ctx context.Context, items []*models.Recipe) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(items))
	byID := make(map[int64]*models.Recipe, len(items))
	for _, rc := range items {
		ids = append(ids, rc.ID)
		byID[rc.ID] = rc
	}

	tagQuery :=
		`SELECT l.recipe_id, t.id, t.user_id, t.name FROM recipe_tags l
		 JOIN tags t ON t.id = l.tag_id
		 WHERE l.recipe_id = ANY($1)
		 ORDER BY t.id
		 `
	err := r.eachLink(ctx, tagQuery, ids, func(recipeID, id, userID int64, name string) {
		if rc, ok := byID[recipeID]; ok {
			rc.Tags = append(rc.Tags, &models.Tag{ID: id, UserID: userID, Name: name})
		}
	})
	if err != nil {
		return err
	}

	ingredientQuery :=
		`SELECT l.recipe_id, i.id, i.user_id, i.name FROM recipe_ingredients l
		 JOIN ingredients i ON i.id = l.ingredient_id
		 WHERE l.recipe_id = ANY($1)
		 ORDER BY i.id
		 `
	return r.eachLink(ctx, ingredientQuery, ids, func(recipeID, id, userID int64, name string) {
		if rc, ok := byID[recipeID]; ok {
			rc.Ingredients = append(rc.Ingredients, &models.Ingredient{ID: id, UserID: userID, Name: name})
		}
	})
}

func (r *PostgresRepository) eachLink(ctx context.Context, query string, ids []int64, fn func(recipeID, id, userID int64, name string)) error {
	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID, id, userID int64
			name                 string
		)
		if err := rows.Scan(&recipeID, &id, &userID, &name); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		fn(recipeID, id, userID, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update writes the scalar recipe fields. Links are left untouched.
func (r *PostgresRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	query :=
		`UPDATE recipes SET title = $3, time_minutes = $4, price_cents = $5, link = $6
		 WHERE id = $1 AND user_id = $2
		 `
	return r.execAffecting(ctx, query,
		recipe.ID, recipe.UserID, recipe.Title, recipe.TimeMinutes, int64(recipe.Price), recipe.Link)
}

// Delete removes the user's recipe and its links.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query :=
		`DELETE FROM recipes
		 WHERE id = $1 AND user_id = $2
		 `
	return r.execAffecting(ctx, query, id, userID)
}

// SetImage stores the object key of the recipe image.
func (r *PostgresRepository) SetImage(ctx context.Context, userID, id int64, key string) error {
	query :=
		`UPDATE recipes SET image = $3
		 WHERE id = $1 AND user_id = $2
		 `
	return r.execAffecting(ctx, query, id, userID, key)
}

// SetTags replaces the recipe's tag links with tagIDs.
func (r *PostgresRepository) SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	return r.replaceLinks(ctx, "recipe_tags", "tag_id", recipeID, tagIDs)
}

// SetIngredients replaces the recipe's ingredient links with ingredientIDs.
func (r *PostgresRepository) SetIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) error {
	return r.replaceLinks(ctx, "recipe_ingredients", "ingredient_id", recipeID, ingredientIDs)
}

// replaceLinks is meant to run inside a transaction; table and column come
// from the fixed set above, never from user input.
func (r *PostgresRepository) replaceLinks(ctx context.Context, table, column string, recipeID int64, ids []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	query := `INSERT INTO ` + table + ` (recipe_id, ` + column + `)
		 SELECT $1, unnest($2::bigint[])
		 ON CONFLICT DO NOTHING
		 `
	if _, err := r.db.ExecContext(ctx, query, recipeID, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) execAffecting(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
