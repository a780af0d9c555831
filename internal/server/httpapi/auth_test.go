package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipeapi/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedEndpointsRequireLogin(t *testing.T) {
	e := newTestEnv(t)

	paths := []string{
		"/api/user/me/",
		"/api/recipe/tags/",
		"/api/recipe/ingredients/",
		"/api/recipe/recipes/",
		"/api/recipe/recipes/1/",
		"/api/recipe/recipes/1/card.pdf",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, p, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec), "detail")
		})
	}
}

func TestAuthMiddleware_BadTokens(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/recipe/tags/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token.", decode[map[string]string](t, rec)["detail"])

	expired, err := auth.GenerateToken(1, []byte("test-secret"), -time.Minute)
	require.NoError(t, err)
	rec = e.do(t, http.MethodGet, "/api/recipe/tags/", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has expired.", decode[map[string]string](t, rec)["detail"])

	req := e.do(t, http.MethodGet, "/api/recipe/tags/", "", nil)
	assert.Equal(t, "Authentication credentials were not provided.", decode[map[string]string](t, req)["detail"])
}
