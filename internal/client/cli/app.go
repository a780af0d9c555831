// Package cli implements the interactive recipe shell.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/recipeapi/internal/client/api"
	"github.com/dmitrijs2005/recipeapi/internal/client/config"
	"github.com/dmitrijs2005/recipeapi/internal/client/session"
)

// recipeAPI is the part of api.Client the shell uses.
type recipeAPI interface {
	Register(ctx context.Context, email, password, name string) (*api.User, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Session(ctx context.Context) (session.Session, error)
	ListTags(ctx context.Context) ([]api.Attribute, error)
	CreateTag(ctx context.Context, name string) (*api.Attribute, error)
	ListIngredients(ctx context.Context) ([]api.Attribute, error)
	CreateIngredient(ctx context.Context, name string) (*api.Attribute, error)
	ListRecipes(ctx context.Context, tagIDs []int64) ([]api.RecipeSummary, error)
	GetRecipe(ctx context.Context, id int64) (*api.RecipeDetail, error)
	CreateRecipe(ctx context.Context, in api.RecipeInput) (*api.RecipeSummary, error)
	UploadImage(ctx context.Context, id int64, data []byte) (*api.ImageUpload, error)
	RecipeCard(ctx context.Context, id int64) ([]byte, error)
}

type App struct {
	api    recipeAPI
	closer io.Closer
	reader *bufio.Reader
	out    io.Writer
	email  string
}

// NewApp opens the token database and connects the API client to it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := session.Open(ctx, c.TokenDBPath)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(c.ServerURL, c.RequestTimeout, session.NewSQLiteStore(db))

	return &App{api: client, closer: db, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	if a.closer != nil {
		defer a.closer.Close()
	}

	if s, err := a.api.Session(ctx); err == nil && !s.Empty() {
		a.email = s.Email
	}

	printlnFn("Welcome to the recipe CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}

func (a *App) status() string {
	if a.email == "" {
		return ""
	}
	return "(" + a.email + ") "
}
