package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/dbx"
	"github.com/dmitrijs2005/recipeapi/internal/logging"
	"github.com/dmitrijs2005/recipeapi/internal/money"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/repomanager"
)

const msgNonNegative = "Ensure this value is greater than or equal to 0."

// maxTimeMinutes is the largest value the time_minutes column can hold.
const maxTimeMinutes = math.MaxInt32

// RecipeInput carries recipe fields from a request. A nil field was not
// supplied. For Tags and Ingredients a non-nil pointer to an empty slice
// clears the set.
type RecipeInput struct {
	Title       *string
	TimeMinutes *int
	Price       *money.Price
	Link        *string
	Tags        *[]int64
	Ingredients *[]int64
}

type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageStore
	logger      logging.Logger
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager, images ImageStore, logger logging.Logger) *RecipeService {
	return &RecipeService{
		db:          db,
		repomanager: m,
		images:      images,
		logger:      logger.With("module", "recipes"),
	}
}

// List returns the caller's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, userID int64, filter models.RecipeFilter) ([]*models.Recipe, error) {
	items, err := s.repomanager.Recipes(s.db).List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}
	return items, nil
}

// Retrieve returns one of the caller's recipes with its tags and
// ingredients. Recipes of other users are reported as not found.
func (s *RecipeService) Retrieve(ctx context.Context, userID, id int64) (*models.Recipe, error) {
	rc, err := s.repomanager.Recipes(s.db).Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading recipe: %w", err)
	}
	return rc, nil
}

// ImageURL presigns a download URL for the recipe image, or returns "" when
// the recipe has none.
func (s *RecipeService) ImageURL(ctx context.Context, rc *models.Recipe) (string, error) {
	if rc.Image == "" || s.images == nil {
		return "", nil
	}
	return s.images.PresignGet(ctx, rc.Image)
}

// Create validates in and stores a recipe owned by userID together with
// its tag and ingredient links, in one transaction.
func (s *RecipeService) Create(ctx context.Context, userID int64, in RecipeInput) (*models.Recipe, error) {
	rc := &models.Recipe{UserID: userID}
	if err := applyRecipeInput(rc, in, false).OrNil(); err != nil {
		return nil, err
	}

	var created *models.Recipe
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkOwnership(ctx, tx, userID, in); err != nil {
			return err
		}

		repo := s.repomanager.Recipes(tx)
		if _, err := repo.Create(ctx, rc); err != nil {
			return fmt.Errorf("error creating recipe: %w", err)
		}
		if err := s.writeLinks(ctx, tx, rc.ID, in, false); err != nil {
			return err
		}

		var err error
		created, err = repo.Get(ctx, userID, rc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "recipe created", "id", created.ID, "user_id", userID)
	return created, nil
}

// Update overwrites one of the caller's recipes. With partial unset (PUT)
// every field is required and omitted relation lists are cleared; with
// partial set (PATCH) only the supplied fields change.
func (s *RecipeService) Update(ctx context.Context, userID, id int64, in RecipeInput, partial bool) (*models.Recipe, error) {
	var updated *models.Recipe
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)

		rc, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		if err := applyRecipeInput(rc, in, partial).OrNil(); err != nil {
			return err
		}
		if err := s.checkOwnership(ctx, tx, userID, in); err != nil {
			return err
		}

		if err := repo.Update(ctx, rc); err != nil {
			return fmt.Errorf("error updating recipe: %w", err)
		}
		if err := s.writeLinks(ctx, tx, rc.ID, in, !partial); err != nil {
			return err
		}

		updated, err = repo.Get(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repomanager.Recipes(s.db).Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting recipe: %w", err)
	}
	return nil
}

// RequestImageUpload assigns a fresh storage key to the recipe image and
// returns the updated recipe with a presigned upload URL.
func (s *RecipeService) RequestImageUpload(ctx context.Context, userID, id int64) (*models.Recipe, string, error) {
	if s.images == nil {
		return nil, "", common.ErrorInternal
	}

	repo := s.repomanager.Recipes(s.db)
	rc, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	key := NewImageKey(userID, id)
	url, err := s.images.PresignPut(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	if err := repo.SetImage(ctx, userID, id, key); err != nil {
		return nil, "", err
	}
	rc.Image = key
	return rc, url, nil
}

// applyRecipeInput copies the supplied fields onto rc and returns the
// collected field errors. Unless partial, title, time_minutes and price
// are required.
func applyRecipeInput(rc *models.Recipe, in RecipeInput, partial bool) *common.ValidationError {
	verr := &common.ValidationError{}

	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t == "" {
			verr.Add("title", msgBlank)
		} else {
			rc.Title = t
		}
	} else if !partial {
		verr.Add("title", msgRequired)
	}

	if in.TimeMinutes != nil {
		switch {
		case *in.TimeMinutes < 0:
			verr.Add("time_minutes", msgNonNegative)
		case *in.TimeMinutes > maxTimeMinutes:
			verr.Add("time_minutes", fmt.Sprintf("Ensure this value is less than or equal to %d.", maxTimeMinutes))
		default:
			rc.TimeMinutes = *in.TimeMinutes
		}
	} else if !partial {
		verr.Add("time_minutes", msgRequired)
	}

	if in.Price != nil {
		if *in.Price < 0 {
			verr.Add("price", msgNonNegative)
		} else {
			rc.Price = *in.Price
		}
	} else if !partial {
		verr.Add("price", msgRequired)
	}

	if in.Link != nil {
		rc.Link = strings.TrimSpace(*in.Link)
	} else if !partial {
		rc.Link = ""
	}

	return verr
}

// checkOwnership rejects tag or ingredient ids the caller does not own.
func (s *RecipeService) checkOwnership(ctx context.Context, tx dbx.DBTX, userID int64, in RecipeInput) error {
	verr := &common.ValidationError{}

	if in.Tags != nil && len(*in.Tags) > 0 {
		owned, err := s.repomanager.Tags(tx).FilterOwned(ctx, userID, *in.Tags)
		if err != nil {
			return fmt.Errorf("error checking tags: %w", err)
		}
		addMissing(verr, "tags", *in.Tags, owned)
	}

	if in.Ingredients != nil && len(*in.Ingredients) > 0 {
		owned, err := s.repomanager.Ingredients(tx).FilterOwned(ctx, userID, *in.Ingredients)
		if err != nil {
			return fmt.Errorf("error checking ingredients: %w", err)
		}
		addMissing(verr, "ingredients", *in.Ingredients, owned)
	}

	return verr.OrNil()
}

func addMissing(verr *common.ValidationError, field string, want, owned []int64) {
	have := make(map[int64]struct{}, len(owned))
	for _, id := range owned {
		have[id] = struct{}{}
	}
	for _, id := range uniqueIDs(want) {
		if _, ok := have[id]; !ok {
			verr.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}
}

// uniqueIDs returns ids without duplicates, ascending.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// writeLinks replaces the supplied relation sets. With clearOmitted set,
// omitted sets are emptied as well.
func (s *RecipeService) writeLinks(ctx context.Context, tx dbx.DBTX, recipeID int64, in RecipeInput, clearOmitted bool) error {
	repo := s.repomanager.Recipes(tx)

	if in.Tags != nil {
		if err := repo.SetTags(ctx, recipeID, uniqueIDs(*in.Tags)); err != nil {
			return fmt.Errorf("error linking tags: %w", err)
		}
	} else if clearOmitted {
		if err := repo.SetTags(ctx, recipeID, nil); err != nil {
			return fmt.Errorf("error linking tags: %w", err)
		}
	}

	if in.Ingredients != nil {
		if err := repo.SetIngredients(ctx, recipeID, uniqueIDs(*in.Ingredients)); err != nil {
			return fmt.Errorf("error linking ingredients: %w", err)
		}
	} else if clearOmitted {
		if err := repo.SetIngredients(ctx, recipeID, nil); err != nil {
			return fmt.Errorf("error linking ingredients: %w", err)
		}
	}

	return nil
}
