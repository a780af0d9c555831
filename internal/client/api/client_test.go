package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipeapi/internal/client/session"
	"github.com/dmitrijs2005/recipeapi/internal/logging"
	"github.com/dmitrijs2005/recipeapi/internal/server/config"
	"github.com/dmitrijs2005/recipeapi/internal/server/httpapi"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipeapi/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	s     session.Session
	saves int
}

func (m *memTokens) Load(context.Context) (session.Session, error) { return m.s, nil }

func (m *memTokens) Save(_ context.Context, s session.Session) error {
	m.saves++
	if s.Email == "" {
		s.Email = m.s.Email
	}
	m.s = s
	return nil
}

func (m *memTokens) Clear(context.Context) error {
	m.s = session.Session{}
	return nil
}

// bucketImages presigns against a fake bucket server.
type bucketImages struct{ base string }

func (b bucketImages) PresignPut(_ context.Context, key string) (string, error) {
	return b.base + "/" + key, nil
}

func (b bucketImages) PresignGet(_ context.Context, key string) (string, error) {
	return b.base + "/" + key, nil
}

// newAPIServer runs the real HTTP API over the in-memory store.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newAPIServerWithImages(t, nil)
}

func newAPIServerWithImages(t *testing.T, images services.ImageStore) *httptest.Server {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	cfg := &config.Config{
		SecretKey:                    "client-test",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: time.Hour,
	}
	svc := httpapi.Services{
		Users:       services.NewUserService(nil, rm, cfg, logging.Nop{}),
		Tags:        services.NewTagService(nil, rm),
		Ingredients: services.NewIngredientService(nil, rm),
		Recipes:     services.NewRecipeService(nil, rm, images, logging.Nop{}),
	}
	srv := httptest.NewServer(httpapi.NewHTTPServer(":0", logging.Nop{}, svc, 0, 0, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func loggedInClient(t *testing.T) (*Client, *memTokens) {
	t.Helper()
	return loggedInClientOn(t, newAPIServer(t))
}

func loggedInClientOn(t *testing.T, srv *httptest.Server) (*Client, *memTokens) {
	t.Helper()
	tokens := &memTokens{}
	c := NewClient(srv.URL+"/", 5*time.Second, tokens)
	ctx := context.Background()

	_, err := c.Register(ctx, "cli@example.com", "testpass", "Cli")
	require.NoError(t, err)
	require.NoError(t, c.Login(ctx, "cli@example.com", "testpass"))
	return c, tokens
}

func TestRegisterLoginMe(t *testing.T) {
	c, tokens := loggedInClient(t)

	assert.Equal(t, "cli@example.com", tokens.s.Email)
	assert.NotEmpty(t, tokens.s.AccessToken)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cli", me.Name)
}

func TestRegister_ValidationError(t *testing.T) {
	c := NewClient(newAPIServer(t).URL, 5*time.Second, &memTokens{})

	_, err := c.Register(context.Background(), "x@example.com", "pw", "")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Fields, "password")
	assert.Contains(t, apiErr.Error(), "password:")
}

func TestLogin_BadCredentials(t *testing.T) {
	c, tokens := loggedInClient(t)
	before := tokens.s

	err := c.Login(context.Background(), "cli@example.com", "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, before, tokens.s)
}

func TestNotLoggedIn(t *testing.T) {
	c := NewClient(newAPIServer(t).URL, 5*time.Second, &memTokens{})

	_, err := c.ListTags(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestTagsIngredientsRecipes(t *testing.T) {
	c, _ := loggedInClient(t)
	ctx := context.Background()

	vegan, err := c.CreateTag(ctx, "Vegan")
	require.NoError(t, err)
	_, err = c.CreateTag(ctx, "Dessert")
	require.NoError(t, err)
	kale, err := c.CreateIngredient(ctx, "Kale")
	require.NoError(t, err)

	tags, err := c.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Vegan", tags[0].Name)

	ings, err := c.ListIngredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Attribute{*kale}, ings)

	created, err := c.CreateRecipe(ctx, RecipeInput{
		Title: "Kale salad", TimeMinutes: 10, Price: "4.50",
		Tags: []int64{vegan.ID}, Ingredients: []int64{kale.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "4.50", created.Price)

	_, err = c.CreateRecipe(ctx, RecipeInput{Title: "Plain", TimeMinutes: 1, Price: "1.00", Tags: []int64{}, Ingredients: []int64{}})
	require.NoError(t, err)

	list, err := c.ListRecipes(ctx, []int64{vegan.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	all, err := c.ListRecipes(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	detail, err := c.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []Attribute{*vegan}, detail.Tags)
	assert.Equal(t, []Attribute{*kale}, detail.Ingredients)

	_, err = c.GetRecipe(ctx, created.ID+100)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "404: Not found.", apiErr.Error())
}

func TestUploadImageAndCard(t *testing.T) {
	var stored []byte
	var storedPath string
	bucket := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storedPath = r.URL.Path
		stored, _ = io.ReadAll(r.Body)
	}))
	defer bucket.Close()

	c, _ := loggedInClientOn(t, newAPIServerWithImages(t, bucketImages{base: bucket.URL}))
	ctx := context.Background()

	rc, err := c.CreateRecipe(ctx, RecipeInput{Title: "Toast", TimeMinutes: 2, Price: "0.50"})
	require.NoError(t, err)

	up, err := c.UploadImage(ctx, rc.ID, []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), stored)
	assert.Equal(t, "/"+up.Image, storedPath)

	detail, err := c.GetRecipe(ctx, rc.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Image)
	assert.Equal(t, bucket.URL+"/"+up.Image, *detail.Image)

	pdf, err := c.RecipeCard(ctx, rc.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRefreshOn401(t *testing.T) {
	c, tokens := loggedInClient(t)
	good := tokens.s
	tokens.s.AccessToken = "stale"

	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "stale", tokens.s.AccessToken)
	assert.NotEqual(t, good.RefreshToken, tokens.s.RefreshToken)
	assert.Equal(t, "cli@example.com", tokens.s.Email)
}

func TestRefreshRejectedClearsSession(t *testing.T) {
	c, tokens := loggedInClient(t)
	tokens.s.AccessToken = "stale"
	tokens.s.RefreshToken = "unknown"

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.True(t, tokens.s.Empty())
}

func TestLogout(t *testing.T) {
	c, tokens := loggedInClient(t)

	require.NoError(t, c.Logout(context.Background()))
	assert.True(t, tokens.s.Empty())

	s, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestUnavailable(t *testing.T) {
	srv := newAPIServer(t)
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, &memTokens{})
	_, err := c.Register(context.Background(), "a@b.com", "testpass", "")
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestParseError(t *testing.T) {
	e := parseError(500, []byte("<html>"))
	assert.Equal(t, "unexpected status 500", e.Error())

	e = parseError(400, []byte(`{"title":["This field is required."],"price":["A valid number is required."]}`))
	assert.Equal(t, "400: price: A valid number is required.; title: This field is required.", e.Error())
}
