package users

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-tracker/internal/shared/auth"
)

// PasswordMinLength is the character floor for account passwords.
const PasswordMinLength = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var signUpFields = []string{"email", "password", "confirmPassword", "name"}
var signInFields = []string{"email", "password"}

// Service contains account business logic: registration, credential
// verification and refresh-token rotation.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// SignUp registers a new applicant account.
func (s *Service) SignUp(ctx context.Context, email, password, confirmPassword, name string) (User, error) {
	values := map[string]string{
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
		"name":            name,
	}
	if err := requireFields(signUpFields, values); err != nil {
		return User{}, err
	}
	if !emailRegex.MatchString(email) {
		return User{}, fmt.Errorf("%w: email format is invalid", ErrInvalidInput)
	}
	if len(password) < PasswordMinLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, PasswordMinLength)
	}
	if password != confirmPassword {
		return User{}, fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		Role:         RoleApplicant,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// SignIn verifies credentials and issues a fresh token pair. The refresh
// token's hash is stored so it can be revoked and verified on rotation.
func (s *Service) SignIn(ctx context.Context, email, password string) (TokenPair, error) {
	values := map[string]string{"email": email, "password": password}
	if err := requireFields(signInFields, values); err != nil {
		return TokenPair{}, err
	}
	if !emailRegex.MatchString(email) {
		return TokenPair{}, fmt.Errorf("%w: email format is invalid", ErrInvalidInput)
	}

	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if user.PasswordHash == "" {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh validates a refresh token against its stored hash and rotates the
// pair. A token that was already rotated or revoked is rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := auth.VerifyTokenKind(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	storedHash, err := s.Repo.GetRefreshToken(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), tokenDigest(refreshToken)); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.Repo.GetByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the user's refresh token.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.Repo.DeleteRefreshTokens(ctx, userID)
}

// GetByID fetches an account.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpsertFromOAuth persists an externally-authenticated identity. New
// accounts default to the applicant role; existing accounts keep theirs.
func (s *Service) UpsertFromOAuth(ctx context.Context, email, name string) (User, error) {
	if strings.TrimSpace(email) == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}
	return s.Repo.Upsert(ctx, User{
		ID:    uuid.NewString(),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  name,
		Role:  RoleApplicant,
	})
}

func (s *Service) issueTokens(ctx context.Context, user User) (TokenPair, error) {
	claims := auth.Claims{
		Sub:   user.ID,
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
	}

	accessToken, err := auth.SignAccessToken(claims)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := auth.SignRefreshToken(claims)
	if err != nil {
		return TokenPair{}, err
	}

	// bcrypt input is capped at 72 bytes; hash the token first.
	tokenHash, err := bcrypt.GenerateFromPassword(tokenDigest(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, user.ID, string(tokenHash)); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func tokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

// requireFields reports every missing field jointly, comma-joined in the
// given order.
func requireFields(order []string, values map[string]string) error {
	var missing []string
	for _, field := range order {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}
