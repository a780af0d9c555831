// Package services contains server-side business logic. UserService handles
// registration, login, profile updates and issuing/refreshing JWTs plus
// server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/dbx"
	"github.com/dmitrijs2005/recipeapi/internal/logging"
	"github.com/dmitrijs2005/recipeapi/internal/server/auth"
	"github.com/dmitrijs2005/recipeapi/internal/server/config"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
	"github.com/dmitrijs2005/recipeapi/internal/server/repositories/repomanager"
)

// MinPasswordLength applies to passwords supplied through the API.
const MinPasswordLength = 5

const (
	msgRequired      = "This field is required."
	msgBlank         = "This field may not be blank."
	msgEmailTaken    = "user with this email already exists."
	msgShortPassword = "Ensure this field has at least 5 characters."
	msgBadLogin      = "Unable to authenticate with provided credentials."
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserUpdate carries the profile fields to change; nil fields are kept.
type UserUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// NormalizeEmail trims the address and lower-cases it as a whole.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a regular user. The email is normalized and required;
// the password is stored as a bcrypt hash.
func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.create(ctx, &models.User{Email: email, Name: name, IsActive: true}, password)
}

// CreateSuperuser stores a user with staff and superuser flags set.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.create(ctx, &models.User{Email: email, IsActive: true, IsStaff: true, IsSuperuser: true}, password)
}

// Register is the public sign-up path: on top of CreateUser it enforces
// the password rules.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	verr := &common.ValidationError{}
	if NormalizeEmail(email) == "" {
		verr.Add("email", msgRequired)
	}
	validatePassword(verr, password)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return s.CreateUser(ctx, email, password, name)
}

func validatePassword(verr *common.ValidationError, password string) {
	switch {
	case password == "":
		verr.Add("password", msgRequired)
	case len([]rune(password)) < MinPasswordLength:
		verr.Add("password", msgShortPassword)
	}
}

func (s *UserService) create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	user.Email = NormalizeEmail(user.Email)
	if user.Email == "" {
		return nil, common.NewValidationError("email", "Users must have an email address.")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	user.Password = hash

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewValidationError("email", msgEmailTaken)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user created", "id", user.ID, "superuser", user.IsSuperuser)
	return user, nil
}

// Login verifies the credentials and returns a fresh TokenPair. Unknown
// emails, wrong passwords and inactive accounts all yield the same
// validation error so callers cannot probe for accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	verr := &common.ValidationError{}
	if strings.TrimSpace(email) == "" {
		verr.Add("email", msgRequired)
	}
	if password == "" {
		verr.Add("password", msgRequired)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewValidationError("non_field_errors", msgBadLogin)
		}
		return nil, common.ErrorInternal
	}

	if !user.IsActive || !auth.CheckPassword(user.Password, password) {
		return nil, common.NewValidationError("non_field_errors", msgBadLogin)
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired,
// unknown ones ErrInvalidToken.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		var err error
		tokenPair, err = s.generateTokenPair(ctx, token.UserID, tx)
		if err != nil {
			return fmt.Errorf("error generating token pair: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// Me returns the profile of the authenticated user.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// UpdateMe applies upd to the authenticated user's profile. A new password
// is hashed before it is stored.
func (s *UserService) UpdateMe(ctx context.Context, userID int64, upd UserUpdate) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	verr := &common.ValidationError{}
	if upd.Email != nil {
		if e := NormalizeEmail(*upd.Email); e == "" {
			verr.Add("email", msgBlank)
		} else {
			user.Email = e
		}
	}
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Password != nil {
		validatePassword(verr, *upd.Password)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if upd.Password != nil {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hash
	}

	if err := s.repomanager.Users(s.db).Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewValidationError("email", msgEmailTaken)
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// Authenticate resolves a bearer access token to the id of an existing,
// active user.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (int64, error) {
	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return 0, err
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !user.IsActive {
		return 0, common.ErrorUnauthorized
	}
	return user.ID, nil
}

func (s *UserService) generateAccessToken(userID int64) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID int64, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	err = s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
