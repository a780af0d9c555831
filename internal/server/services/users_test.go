package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/logging"
	"github.com/dmitrijs2005/recipeapi/internal/server/auth"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	verr, ok := common.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return verr.Fields
}

func TestCreateUser_EmailAndPassword(t *testing.T) {
	f := newFixture(t, nil)

	u, err := f.users.CreateUser(context.Background(), "test@londonappdev.com", "Testpass123", "")
	require.NoError(t, err)
	assert.Equal(t, "test@londonappdev.com", u.Email)
	assert.True(t, auth.CheckPassword(u.Password, "Testpass123"))
	assert.NotEqual(t, "Testpass123", u.Password)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsStaff)
	assert.False(t, u.IsSuperuser)
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	f := newFixture(t, nil)

	u, err := f.users.CreateUser(context.Background(), "  test@LONDONAPPDEV.COM ", "test123", "")
	require.NoError(t, err)
	assert.Equal(t, "test@londonappdev.com", u.Email)
}

func TestCreateUser_NoEmail(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.users.CreateUser(context.Background(), "", "test123", "")
	assert.Contains(t, fieldErrors(t, err), "email")
}

func TestCreateUser_Duplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, "a@b.com", "test123", "")
	require.NoError(t, err)
	_, err = f.users.CreateUser(ctx, "A@B.com", "test123", "")
	assert.Equal(t, []string{msgEmailTaken}, fieldErrors(t, err)["email"])
}

func TestCreateSuperuser(t *testing.T) {
	f := newFixture(t, nil)

	u, err := f.users.CreateSuperuser(context.Background(), "test@londonappdev.com", "test123")
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.True(t, u.IsSuperuser)
}

func TestRegister_PasswordRules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.users.Register(ctx, "a@b.com", "pw", "")
	assert.Equal(t, []string{msgShortPassword}, fieldErrors(t, err)["password"])

	_, err = f.users.Register(ctx, "", "", "")
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	u, err := f.users.Register(ctx, "a@b.com", "testpass", "Test name")
	require.NoError(t, err)
	assert.Equal(t, "Test name", u.Name)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, "a@b.com", "testpass", "")
	require.NoError(t, err)

	pair, err := f.users.Login(ctx, "A@b.com", "testpass")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	id, err := f.users.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = f.users.Login(ctx, "a@b.com", "wrong")
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")

	_, err = f.users.Login(ctx, "ghost@b.com", "testpass")
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")

	_, err = f.users.Login(ctx, "a@b.com", "")
	assert.Contains(t, fieldErrors(t, err), "password")
}

func TestAuthenticate_Errors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.users.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	expired, err := auth.GenerateToken(1, []byte("k"), -time.Minute)
	require.NoError(t, err)
	_, err = f.users.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	orphan, err := auth.GenerateToken(999, []byte("k"), time.Minute)
	require.NoError(t, err)
	_, err = f.users.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_Rotates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, "a@b.com", "testpass", "")
	require.NoError(t, err)
	pair, err := f.users.Login(ctx, "a@b.com", "testpass")
	require.NoError(t, err)

	next, err := f.users.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = f.users.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefreshToken_Expired(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := NewUserService(nil, rm, testConfig(), logging.Nop{})
	ctx := context.Background()

	require.NoError(t, rm.RefreshTokens(nil).Create(ctx, 1, "old", -time.Minute))

	_, err := s.RefreshToken(ctx, "old")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestRefreshToken_RunsInTransaction(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewMemoryRepositoryManager()
	s := NewUserService(db, rm, testConfig(), logging.Nop{})
	ctx := context.Background()

	require.NoError(t, rm.RefreshTokens(nil).Create(ctx, 1, "tok", time.Hour))

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := s.RefreshToken(ctx, "tok")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_BeginError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewMemoryRepositoryManager()
	s := NewUserService(db, rm, testConfig(), logging.Nop{})
	ctx := context.Background()

	require.NoError(t, rm.RefreshTokens(nil).Create(ctx, 1, "tok", time.Hour))
	mock.ExpectBegin().WillReturnError(errors.New("no tx"))

	_, err := s.RefreshToken(ctx, "tok")
	require.Error(t, err)
}

func TestMeAndUpdateMe(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, "a@b.com", "testpass", "Old")
	require.NoError(t, err)

	me, err := f.users.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old", me.Name)

	_, err = f.users.UpdateMe(ctx, u.ID, UserUpdate{Password: ptr("abc")})
	assert.Contains(t, fieldErrors(t, err), "password")

	upd, err := f.users.UpdateMe(ctx, u.ID, UserUpdate{Name: ptr("New name"), Password: ptr("newpassword123")})
	require.NoError(t, err)
	assert.Equal(t, "New name", upd.Name)

	_, err = f.users.Login(ctx, "a@b.com", "newpassword123")
	require.NoError(t, err)

	_, err = f.users.Me(ctx, 999)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
