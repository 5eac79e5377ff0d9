package users

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestService() *Service {
	return NewService(NewMemoryRepo())
}

func TestSignUp(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "Alice@Example.com", "secret1", "secret1", "Alice")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated user id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != RoleApplicant {
		t.Fatalf("new account role = %q, want APPLICANT", user.Role)
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("password stored in the clear")
	}

	if _, err := svc.SignUp(ctx, "alice@example.com", "secret1", "secret1", "Alice Again"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "", "", "", "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "email, password, confirmPassword, name required") {
		t.Fatalf("missing fields not reported jointly: %v", err)
	}

	if _, err := svc.SignUp(ctx, "not-an-email", "secret1", "secret1", "Alice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid email error, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "alice@example.com", "short", "short", "Alice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected short password error, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "alice@example.com", "secret1", "secret2", "Alice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestSignInAndRefresh(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "alice@example.com", "secret1", "secret1", "Alice"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	pair, err := svc.SignIn(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("incomplete token pair: %+v", pair)
	}

	if _, err := svc.SignIn(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.AccessToken == "" || rotated.RefreshToken == "" {
		t.Fatalf("incomplete rotated pair: %+v", rotated)
	}

	// An access token is not a refresh token.
	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for access token, got %v", err)
	}
}

func TestLogoutRevokesRefresh(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "alice@example.com", "secret1", "secret1", "Alice")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	pair, err := svc.SignIn(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected revoked refresh token to fail, got %v", err)
	}
}

func TestUpsertFromOAuth(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.UpsertFromOAuth(ctx, "Alice@Example.com", "Alice")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.Role != RoleApplicant {
		t.Fatalf("oauth account role = %q", first.Role)
	}

	// A second login keeps the existing account.
	second, err := svc.UpsertFromOAuth(ctx, "alice@example.com", "Alice A.")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("oauth upsert created a duplicate account")
	}

	if _, err := svc.UpsertFromOAuth(ctx, "", "Alice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing email, got %v", err)
	}
}
