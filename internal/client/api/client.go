// Package api is a small client for the recipe HTTP API. It keeps the token
// pair in a TokenStore and refreshes the access token once when a request
// comes back 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipeapi/internal/client/session"
	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/netx"
)

type TokenStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	var u User
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.call(ctx, http.MethodPost, "/api/user/create/", body, &u, false); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login obtains a token pair and stores it together with email.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var pair tokenPair
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/api/user/token/", body, &pair, false); err != nil {
		return err
	}
	return c.tokens.Save(ctx, session.Session{Email: email, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}

// Session returns the stored login, if any.
func (c *Client) Session(ctx context.Context) (session.Session, error) {
	return c.tokens.Load(ctx)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.call(ctx, http.MethodGet, "/api/user/me/", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListTags(ctx context.Context) ([]Attribute, error) {
	var out []Attribute
	err := c.call(ctx, http.MethodGet, "/api/recipe/tags/", nil, &out, true)
	return out, err
}

func (c *Client) CreateTag(ctx context.Context, name string) (*Attribute, error) {
	var a Attribute
	if err := c.call(ctx, http.MethodPost, "/api/recipe/tags/", map[string]string{"name": name}, &a, true); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) ListIngredients(ctx context.Context) ([]Attribute, error) {
	var out []Attribute
	err := c.call(ctx, http.MethodGet, "/api/recipe/ingredients/", nil, &out, true)
	return out, err
}

func (c *Client) CreateIngredient(ctx context.Context, name string) (*Attribute, error) {
	var a Attribute
	if err := c.call(ctx, http.MethodPost, "/api/recipe/ingredients/", map[string]string{"name": name}, &a, true); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListRecipes returns the caller's recipes, newest first, optionally
// narrowed to those carrying any of tagIDs.
func (c *Client) ListRecipes(ctx context.Context, tagIDs []int64) ([]RecipeSummary, error) {
	path := "/api/recipe/recipes/"
	if len(tagIDs) > 0 {
		ids := make([]string, 0, len(tagIDs))
		for _, id := range tagIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		path += "?tags=" + strings.Join(ids, ",")
	}
	var out []RecipeSummary
	err := c.call(ctx, http.MethodGet, path, nil, &out, true)
	return out, err
}

func (c *Client) GetRecipe(ctx context.Context, id int64) (*RecipeDetail, error) {
	var d RecipeDetail
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/recipe/recipes/%d/", id), nil, &d, true); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateRecipe(ctx context.Context, in RecipeInput) (*RecipeSummary, error) {
	var r RecipeSummary
	if err := c.call(ctx, http.MethodPost, "/api/recipe/recipes/", in, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

// UploadImage reserves an image slot for the recipe and PUTs data to the
// presigned URL the API hands back.
func (c *Client) UploadImage(ctx context.Context, id int64, data []byte) (*ImageUpload, error) {
	var up ImageUpload
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/api/recipe/recipes/%d/upload-image/", id), nil, &up, true); err != nil {
		return nil, err
	}
	if err := netx.UploadToPresignedURL(ctx, c.http, up.UploadURL, "image/jpeg", data); err != nil {
		return nil, err
	}
	return &up, nil
}

// RecipeCard downloads the printable PDF card of a recipe.
func (c *Client) RecipeCard(ctx context.Context, id int64) ([]byte, error) {
	var pdf []byte
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/recipe/recipes/%d/card.pdf", id), nil, &pdf, true); err != nil {
		return nil, err
	}
	return pdf, nil
}

// call performs one request. With auth set it attaches the stored access
// token and, on 401, refreshes the pair once and retries.
func (c *Client) call(ctx context.Context, method, path string, in, out any, auth bool) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = b
	}

	if !auth {
		status, body, err := c.send(ctx, method, path, payload, "")
		if err != nil {
			return err
		}
		return decodeResponse(status, body, out)
	}

	s, err := c.tokens.Load(ctx)
	if err != nil {
		return err
	}
	if s.Empty() {
		return ErrNotLoggedIn
	}

	status, body, err := c.send(ctx, method, path, payload, s.AccessToken)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized && s.RefreshToken != "" {
		if err := c.refresh(ctx, s.RefreshToken); err != nil {
			return err
		}
		s, err = c.tokens.Load(ctx)
		if err != nil {
			return err
		}
		status, body, err = c.send(ctx, method, path, payload, s.AccessToken)
		if err != nil {
			return err
		}
	}
	return decodeResponse(status, body, out)
}

func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}

	status, body, err := c.send(ctx, http.MethodPost, "/api/user/token/refresh/", payload, "")
	if err != nil {
		return err
	}

	var pair tokenPair
	if err := decodeResponse(status, body, &pair); err != nil {
		if status == http.StatusUnauthorized {
			_ = c.tokens.Clear(ctx)
			return ErrNotLoggedIn
		}
		return err
	}
	return c.tokens.Save(ctx, session.Session{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func decodeResponse(status int, body []byte, out any) error {
	if status < 200 || status > 299 {
		return parseError(status, body)
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = body
		return nil
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("bad response: %w", err)
	}
	return nil
}
