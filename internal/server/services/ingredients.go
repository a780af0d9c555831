package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/repomanager"
)

// IngredientService manages the caller's ingredients.
type IngredientService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewIngredientService(db *sql.DB, m repomanager.RepositoryManager) *IngredientService {
	return &IngredientService{db: db, repomanager: m}
}

func (s *IngredientService) List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Ingredient, error) {
	items, err := s.repomanager.Ingredients(s.db).List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing ingredients: %w", err)
	}
	return items, nil
}

func (s *IngredientService) Create(ctx context.Context, userID int64, name string) (*models.Ingredient, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	ingredient, err := s.repomanager.Ingredients(s.db).Create(ctx, &models.Ingredient{UserID: userID, Name: name})
	if err != nil {
		return nil, fmt.Errorf("error creating ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *IngredientService) Update(ctx context.Context, userID, id int64, name string) (*models.Ingredient, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	ingredient := &models.Ingredient{ID: id, UserID: userID, Name: name}
	if err := s.repomanager.Ingredients(s.db).Update(ctx, ingredient); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *IngredientService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repomanager.Ingredients(s.db).Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting ingredient: %w", err)
	}
	return nil
}
