package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(openTestDB(t))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())

	want := Session{Email: "a@b.com", AccessToken: "acc", RefreshToken: "ref"}
	require.NoError(t, s.Save(ctx, want))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{}, got)
}

func TestStore_SaveKeepsEmailOnRefresh(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(openTestDB(t))

	require.NoError(t, s.Save(ctx, Session{Email: "a@b.com", AccessToken: "acc", RefreshToken: "ref"}))
	require.NoError(t, s.Save(ctx, Session{AccessToken: "acc2", RefreshToken: "ref2"}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{Email: "a@b.com", AccessToken: "acc2", RefreshToken: "ref2"}, got)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteStore(db).Set(context.Background(), "k", "v"))
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	v, err := NewSQLiteStore(db).Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestStore_ErrorsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewSQLiteStore(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM metadata").WithArgs("email").WillReturnError(errors.New("disk"))
	_, err = s.Load(ctx)
	assert.ErrorContains(t, err, "failed to get metadata[email]")

	mock.ExpectExec("INSERT INTO metadata").WillReturnError(errors.New("disk"))
	err = s.Save(ctx, Session{Email: "a@b.com"})
	assert.ErrorContains(t, err, "failed to set metadata[email]")

	mock.ExpectExec("DELETE FROM metadata").WillReturnError(errors.New("disk"))
	assert.ErrorContains(t, s.Clear(ctx), "failed to clear metadata")

	require.NoError(t, mock.ExpectationsWereMet())
}
