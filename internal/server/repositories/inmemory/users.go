package inmemory

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
)

type UserRepository struct {
	s *Store
}

// emailTaken must be called with the store lock held.
func (r *UserRepository) emailTaken(email string, exceptID int64) bool {
	for _, u := range r.s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return nil, common.ErrorAlreadyExists
	}
	user.ID = r.s.nextID()
	user.CreatedAt = r.s.now()
	cp := *user
	r.s.users[user.ID] = &cp
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return common.ErrorAlreadyExists
	}
	u.Email = user.Email
	u.Name = user.Name
	u.Password = user.Password
	return nil
}
