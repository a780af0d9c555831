package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/user/create/", "", map[string]string{
		"email": "Test@LondonAppDev.com", "password": "testpass", "name": "Test name",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "test@londonappdev.com", body["email"])
	assert.NotContains(t, body, "password")

	rec = e.do(t, http.MethodPost, "/api/user/create/", "", map[string]string{
		"email": "test@londonappdev.com", "password": "testpass",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string][]string](t, rec), "email")

	rec = e.do(t, http.MethodPost, "/api/user/create/", "", map[string]string{
		"email": "short@londonappdev.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string][]string](t, rec), "password")
}

func TestCreateUser_BadJSON(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/user/create/", "", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenAndRefresh(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "a@b.com")

	rec := e.do(t, http.MethodPost, "/api/user/token/", "", map[string]string{"email": "a@b.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/user/token/", "", map[string]string{"email": "a@b.com", "password": "testpass"})
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decode[map[string]string](t, rec)
	require.NotEmpty(t, pair["access_token"])
	require.NotEmpty(t, pair["refresh_token"])

	rec = e.do(t, http.MethodPost, "/api/user/token/refresh/", "", map[string]string{"refresh_token": pair["refresh_token"]})
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[map[string]string](t, rec)
	assert.NotEqual(t, pair["refresh_token"], next["refresh_token"])

	rec = e.do(t, http.MethodPost, "/api/user/token/refresh/", "", map[string]string{"refresh_token": pair["refresh_token"]})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/user/token/refresh/", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	e := newTestEnv(t)
	token := e.login(t, "me@b.com")

	rec := e.do(t, http.MethodGet, "/api/user/me/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "me@b.com", decode[map[string]string](t, rec)["email"])

	rec = e.do(t, http.MethodPatch, "/api/user/me/", token, map[string]string{"name": "New name", "password": "newpassword123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New name", decode[map[string]string](t, rec)["name"])

	rec = e.do(t, http.MethodPost, "/api/user/token/", "", map[string]string{"email": "me@b.com", "password": "newpassword123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/user/me/", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
