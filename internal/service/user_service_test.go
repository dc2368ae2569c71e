package service

import (
	"context"
	"errors"
	"testing"

	"teslo-catalog/internal/domain"
	"teslo-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Mock repository for testing the identity flows without a database
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) DeleteAll(ctx context.Context) error {
	m.users = make(map[string]*domain.User)
	return nil
}

func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email string, password string, fullName string) bool {
			userRepo := newMockUserRepository()
			svc := NewUserService(userRepo, "test-secret", zap.NewNop())
			ctx := context.Background()

			user, _, err := svc.Register(ctx, email, password, fullName)
			if err != nil {
				return true
			}

			if user.PasswordHash == password {
				t.Logf("FAIL: Password stored as plaintext for email %s", email)
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				t.Logf("FAIL: Password hash is not a valid bcrypt hash: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{5,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15} [A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRegisterThenLogin(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := NewUserService(userRepo, "test-secret", zap.NewNop())
	ctx := context.Background()

	registered, token, err := svc.Register(ctx, "user@teslo.com", "Abc123456", "Test User")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if token == "" {
		t.Fatal("register returned empty token")
	}
	if !registered.HasRole("user") {
		t.Fatalf("new users should carry the user role, got %v", registered.Roles)
	}

	loggedIn, token, err := svc.Login(ctx, "user@teslo.com", "Abc123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.ID != registered.ID {
		t.Fatal("login returned a different user")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.UserID != registered.ID {
		t.Fatalf("claims user_id = %s, want %s", claims.UserID, registered.ID)
	}
	if claims.Email != "user@teslo.com" {
		t.Fatalf("claims email = %q", claims.Email)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := NewUserService(userRepo, "test-secret", zap.NewNop())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "user@teslo.com", "Abc123456", "Test User"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login(ctx, "user@teslo.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err = svc.Login(ctx, "nobody@teslo.com", "Abc123456")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := NewUserService(userRepo, "test-secret", zap.NewNop())
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "inactive@teslo.com", "Abc123456", "Inactive User")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	user.IsActive = false

	_, _, err = svc.Login(ctx, "inactive@teslo.com", "Abc123456")
	if !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := NewUserService(userRepo, "test-secret", zap.NewNop())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "dup@teslo.com", "Abc123456", "First"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Register(ctx, "dup@teslo.com", "Abc123456", "Second")
	if !errors.Is(err, repository.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestValidateTokenRejectsForgedToken(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := NewUserService(userRepo, "test-secret", zap.NewNop())
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "user@teslo.com", "Abc123456", "Test User")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	other := NewUserService(userRepo, "other-secret", zap.NewNop())
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret should not validate")
	}

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Fatal("garbage token should not validate")
	}
}

func TestCheckStatusIssuesFreshToken(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := NewUserService(userRepo, "test-secret", zap.NewNop())
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "user@teslo.com", "Abc123456", "Test User")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.CheckStatus(ctx, user)
	if err != nil {
		t.Fatalf("check status failed: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("reissued token failed validation: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("claims user_id = %s, want %s", claims.UserID, user.ID)
	}
}
