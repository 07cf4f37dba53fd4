package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

// UserFinder is the slice of the user directory the guard needs. The users
// repository satisfies it.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Guard resolves bearer tokens to directory users and checks role
// membership. It holds no per-request state and is re-evaluated on every
// request; authorization decisions are never cached.
type Guard struct {
	users     UserFinder
	jwtSecret []byte
}

func NewGuard(users UserFinder, secretKey string) *Guard {
	return &Guard{users: users, jwtSecret: []byte(secretKey)}
}

// ResolveIdentity verifies tokenString and looks up its subject in the user
// directory. Any token failure, and a valid-looking token whose subject no
// longer exists, yields common.ErrUnauthenticated — a token for a deleted
// account is rejected the same way as a forged one.
func (g *Guard) ResolveIdentity(ctx context.Context, tokenString string) (*models.User, error) {
	subject, err := GetSubjectFromToken(tokenString, g.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	user, err := g.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, common.ErrInternal
	}

	return user, nil
}

// RequireRole passes user through unchanged when its role is one of
// allowedRoles, and fails with common.ErrForbidden otherwise. It is a pure
// predicate; which roles an operation allows is declared at the call site.
func RequireRole(user *models.User, allowedRoles ...models.Role) (*models.User, error) {
	for _, role := range allowedRoles {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, common.ErrForbidden
}

// RequireSelfOrRole allows the operation when user is the target itself or
// holds one of allowedRoles.
func RequireSelfOrRole(user *models.User, targetID string, allowedRoles ...models.Role) (*models.User, error) {
	if user.ID == targetID {
		return user, nil
	}
	return RequireRole(user, allowedRoles...)
}
