package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recipeapi/internal/logging"
	"github.com/dmitrijs2005/recipeapi/internal/server/config"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

// --- helpers shared by the service tests ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeImages struct {
	putKey string
	putErr error
}

func (f *fakeImages) PresignPut(ctx context.Context, key string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.putKey = key
	return "http://upload/" + key, nil
}

func (f *fakeImages) PresignGet(ctx context.Context, key string) (string, error) {
	return "http://download/" + key, nil
}

type fixture struct {
	users       *UserService
	tags        *TagService
	ingredients *IngredientService
	recipes     *RecipeService
	images      *fakeImages
}

// newFixture wires every service over one in-memory store. A nil db makes
// dbx.WithTx call straight through.
func newFixture(t *testing.T, db *sql.DB) *fixture {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	images := &fakeImages{}
	return &fixture{
		users:       NewUserService(db, rm, testConfig(), logging.Nop{}),
		tags:        NewTagService(db, rm),
		ingredients: NewIngredientService(db, rm),
		recipes:     NewRecipeService(db, rm, images, logging.Nop{}),
		images:      images,
	}
}

func ptr[T any](v T) *T { return &v }
