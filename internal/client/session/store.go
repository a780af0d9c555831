// Package session persists the CLI login (email and token pair) in a local
// sqlite key/value table so it survives restarts.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipeapi/internal/client/migrations"
	"github.com/dmitrijs2005/recipeapi/internal/dbx"
	"github.com/dmitrijs2005/recipeapi/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyEmail        = "email"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Session is what a successful login leaves behind.
type Session struct {
	Email        string
	AccessToken  string
	RefreshToken string
}

// Empty reports whether there is no usable login.
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// Open opens (creating if needed) the sqlite file at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate token database: %w", err)
	}
	return db, nil
}

type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns "" without error when key is absent.
func (r *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// Load reads the stored session; a missing login yields an empty Session.
func (r *SQLiteStore) Load(ctx context.Context) (Session, error) {
	var s Session
	var err error
	if s.Email, err = r.Get(ctx, keyEmail); err != nil {
		return Session{}, err
	}
	if s.AccessToken, err = r.Get(ctx, keyAccessToken); err != nil {
		return Session{}, err
	}
	if s.RefreshToken, err = r.Get(ctx, keyRefreshToken); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Save stores every field of s. An empty Email keeps the previous one, so
// a token refresh does not forget who is logged in.
func (r *SQLiteStore) Save(ctx context.Context, s Session) error {
	if s.Email != "" {
		if err := r.Set(ctx, keyEmail, s.Email); err != nil {
			return err
		}
	}
	if err := r.Set(ctx, keyAccessToken, s.AccessToken); err != nil {
		return err
	}
	return r.Set(ctx, keyRefreshToken, s.RefreshToken)
}

func (r *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}
