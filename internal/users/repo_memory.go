package users

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]User
	refresh map[string]string // userID -> token hash
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]User),
		refresh: make(map[string]string),
	}
}

// Create stores a new account, rejecting duplicate emails.
func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	r.byID[user.ID] = user
	return nil
}

// Upsert inserts or refreshes an account keyed by email.
func (r *MemoryRepo) Upsert(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			existing.Name = user.Name
			existing.UpdatedAt = time.Now().UTC()
			r.byID[id] = existing
			return existing, nil
		}
	}
	r.byID[user.ID] = user
	return user, nil
}

// GetByID fetches an account by identifier.
func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

// GetByEmail fetches an account by email.
func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.byID {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

// SaveRefreshToken replaces the user's stored refresh token hash.
func (r *MemoryRepo) SaveRefreshToken(ctx context.Context, userID, tokenHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.refresh[userID] = tokenHash
	r.mu.Unlock()
	return nil
}

// GetRefreshToken returns the stored refresh token hash.
func (r *MemoryRepo) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	hash, ok := r.refresh[userID]
	if !ok {
		return "", ErrNotFound
	}
	return hash, nil
}

// DeleteRefreshTokens revokes the user's refresh token.
func (r *MemoryRepo) DeleteRefreshTokens(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.refresh, userID)
	r.mu.Unlock()
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
