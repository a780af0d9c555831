package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/repomanager"
)

// TagService manages the caller's tags.
type TagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTagService(db *sql.DB, m repomanager.RepositoryManager) *TagService {
	return &TagService{db: db, repomanager: m}
}

// validateName trims name and reports a blank one as a field error.
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.NewValidationError("name", msgBlank)
	}
	return name, nil
}

func (s *TagService) List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Tag, error) {
	items, err := s.repomanager.Tags(s.db).List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing tags: %w", err)
	}
	return items, nil
}

func (s *TagService) Create(ctx context.Context, userID int64, name string) (*models.Tag, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	tag, err := s.repomanager.Tags(s.db).Create(ctx, &models.Tag{UserID: userID, Name: name})
	if err != nil {
		return nil, fmt.Errorf("error creating tag: %w", err)
	}
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, userID, id int64, name string) (*models.Tag, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	tag := &models.Tag{ID: id, UserID: userID, Name: name}
	if err := s.repomanager.Tags(s.db).Update(ctx, tag); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating tag: %w", err)
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repomanager.Tags(s.db).Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting tag: %w", err)
	}
	return nil
}
