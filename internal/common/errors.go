// Package common contains shared constants and sentinel errors used across
// the exam server components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// Login errors. Deliberately generic: the message never says whether
	// the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Guard errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Exam session precondition violations (verifying an unanswered
	// question, paging out of range, selecting an unoffered letter).
	ErrInvalidOperation = errors.New("invalid operation")
)
