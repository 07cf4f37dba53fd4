package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and as a
// stand-in directory. It enforces the same username/email uniqueness the
// postgres schema does.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(user.Username, user.Email, user.ID); err != nil {
		return nil, err
	}

	stored := *user
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[user.ID]
	if !ok {
		return nil, common.ErrNotFound
	}

	if err := r.checkUnique(user.Username, user.Email, user.ID); err != nil {
		return nil, err
	}

	stored := *user
	stored.CreatedAt = current.CreatedAt
	r.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// checkUnique must be called with the write lock held.
func (r *InMemoryRepository) checkUnique(username, email, selfID string) error {
	for _, u := range r.byID {
		if u.ID == selfID {
			continue
		}
		if u.Email == email {
			return fmt.Errorf("%w: email already in use", common.ErrDuplicate)
		}
		if u.Username == username {
			return fmt.Errorf("%w: username already in use", common.ErrDuplicate)
		}
	}
	return nil
}
