// Package models holds the plain data values shared by the server layers:
// users and their roles, exam questions, and the public DTO shapes returned
// by the API.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/cfsexam/internal/common"
)

// Role governs access to protected operations.
type Role string

const (
	RoleAluno     Role = "aluno"
	RoleInstrutor Role = "instrutor"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a free-text role against the enumerated set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAluno, RoleInstrutor, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, s)
	}
}

// User is the directory record. PasswordHash is an opaque self-describing
// string; the storage engine behind the record is never visible here.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	BirthDate    time.Time
	Role         Role
	Rank         string
	CreatedAt    time.Time
}

// PublicUser is the externally visible projection of a User. It never
// carries the password hash.
type PublicUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	BirthDate string `json:"birth_date"`
	Role      string `json:"role"`
	Rank      string `json:"rank,omitempty"`
	CreatedAt string `json:"created_at"`
}

const dateLayout = "2006-01-02"

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		BirthDate: u.BirthDate.Format(dateLayout),
		Role:      string(u.Role),
		Rank:      u.Rank,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// ParseBirthDate parses the wire format used for birth dates (YYYY-MM-DD).
func ParseBirthDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birth_date must be YYYY-MM-DD", common.ErrValidation)
	}
	return d, nil
}
