package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/auth"
	"github.com/dmitrijs2005/cfsexam/internal/server/config"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

// Service provides account-related operations:
// - Register: create users
// - Login: verify credentials and mint an access token
// - Get / UpdateSelf / Delete: account management behind the guard
type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewService constructs a Service using the user repository and server config.
func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// RegisterParams carries the fields accepted at user creation. Username is
// optional; when blank it is derived from the email's local part.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FullName  string
	BirthDate time.Time
	Role      string
	Rank      string
}

// Register validates params, hashes the password, and creates the user.
// Duplicate username/email surface as common.ErrDuplicate with a message
// naming the conflicting field.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	role, err := models.ParseRole(params.Role)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(params.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}

	username := strings.TrimSpace(params.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	}

	if params.FullName == "" {
		return nil, fmt.Errorf("%w: full_name is required", common.ErrValidation)
	}
	if params.BirthDate.IsZero() {
		return nil, fmt.Errorf("%w: birth_date is required", common.ErrValidation)
	}
	if err := validatePassword(params.Password); err != nil {
		return nil, err
	}

	// Pre-checks give precise messages; the unique constraints remain the
	// authority under concurrent creation.
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already in use", common.ErrDuplicate)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", common.ErrDuplicate)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     params.FullName,
		BirthDate:    params.BirthDate,
		Role:         role,
		Rank:         strings.TrimSpace(params.Rank),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Login verifies the credentials and, on success, returns a signed access
// token. An unknown username and a wrong password are indistinguishable to
// the caller: both yield common.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrInternal
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Malformed stored hash is a data problem, not a bad login.
		return "", common.ErrInternal
	}
	if !ok {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}

	return token, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateParams carries the optional self-service fields. Role and id are
// never settable through this path.
type UpdateParams struct {
	Username  *string
	Email     *string
	FullName  *string
	BirthDate *time.Time
	Rank      *string
	Password  *string
}

// UpdateSelf applies the non-nil fields of params to user and persists the
// result.
func (s *Service) UpdateSelf(ctx context.Context, user *models.User, params UpdateParams) (*models.User, error) {
	updated := *user

	if params.Username != nil {
		username := strings.TrimSpace(*params.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username must not be blank", common.ErrValidation)
		}
		updated.Username = username
	}
	if params.Email != nil {
		email := strings.TrimSpace(*params.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
		}
		updated.Email = email
	}
	if params.FullName != nil {
		if *params.FullName == "" {
			return nil, fmt.Errorf("%w: full_name must not be blank", common.ErrValidation)
		}
		updated.FullName = *params.FullName
	}
	if params.BirthDate != nil {
		updated.BirthDate = *params.BirthDate
	}
	if params.Rank != nil {
		updated.Rank = strings.TrimSpace(*params.Rank)
	}
	if params.Password != nil {
		if err := validatePassword(*params.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	return s.repo.Update(ctx, &updated)
}

// Delete removes the user with the given id; missing users yield
// common.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validatePassword(password string) error {
	if len(password) < common.PasswordMinLength || len(password) > common.PasswordMaxLength {
		return fmt.Errorf("%w: password must be %d to %d characters",
			common.ErrValidation, common.PasswordMinLength, common.PasswordMaxLength)
	}
	return nil
}
