package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const pgUniqueViolation = "23505"

// Create inserts a new account.
func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, name, role, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		nullableString(user.PasswordHash),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Upsert inserts or refreshes an account keyed by email; used by OAuth
// sign-in where the identity provider owns the profile fields. The stored
// role wins over the incoming one so a recruiter signing in via OAuth keeps
// their role.
func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (email) DO UPDATE SET
  name = EXCLUDED.name,
  updated_at = now()
RETURNING id, email, name, role, created_at, updated_at`
	var out User
	err := r.DB.QueryRowContext(ctx, query, user.ID, user.Email, user.Name, user.Role).Scan(
		&out.ID,
		&out.Email,
		&out.Name,
		&out.Role,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return out, nil
}

// GetByID fetches an account by its identifier.
func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, name, role, password_hash, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

// GetByEmail fetches an account by email.
func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, name, role, password_hash, created_at, updated_at
FROM users
WHERE email = $1
LIMIT 1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email))
}

// SaveRefreshToken stores the hash of the user's single live refresh token.
func (r *PGRepo) SaveRefreshToken(ctx context.Context, userID, tokenHash string) error {
	const query = `
INSERT INTO refresh_tokens (user_id, token_hash, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET
  token_hash = EXCLUDED.token_hash,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query, userID, tokenHash)
	return err
}

// GetRefreshToken returns the stored refresh token hash for a user.
func (r *PGRepo) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	const query = `
SELECT token_hash
FROM refresh_tokens
WHERE user_id = $1
LIMIT 1`
	var hash string
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

// DeleteRefreshTokens revokes the user's refresh token.
func (r *PGRepo) DeleteRefreshTokens(ctx context.Context, userID string) error {
	const query = `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}

func (r *PGRepo) scanUser(row *sql.Row) (User, error) {
	var user User
	var passwordHash sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&passwordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
