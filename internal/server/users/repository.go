// Package users implements the user directory: the repository interface the
// core depends on, its PostgreSQL and in-memory implementations, and the
// service with registration, login, and account management.
package users

import (
	"context"

	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

// Repository is the narrow directory interface the core depends on; any
// persistent or in-memory store can stand behind it. Implementations report
// unique-constraint violations as common.ErrDuplicate and missing records as
// common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
