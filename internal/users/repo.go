package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no matching account.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials indicates a failed sign-in or refresh.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repo defines persistence operations for accounts and refresh tokens.
type Repo interface {
	Create(ctx context.Context, user User) error
	Upsert(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// SaveRefreshToken stores the bcrypt hash of a user's refresh token,
	// replacing any previous one (one live token per user).
	SaveRefreshToken(ctx context.Context, userID, tokenHash string) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	DeleteRefreshTokens(ctx context.Context, userID string) error
}
