package usecase_test

import (
	"context"
	"fmt"
	"testing"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	pkgAuth "github.com/IbrahimUniJos/Kasuwa-sub002/internal/pkg/auth"
	testhelpers "github.com/IbrahimUniJos/Kasuwa-sub002/internal/test"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/usecase"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(claims pkgAuth.Claims) (string, error) {
			return fmt.Sprintf("token-%d", claims.UserID), nil
		},
		ParseFn: func(token string) (pkgAuth.Claims, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
			}
			return pkgAuth.Claims{UserID: id}, nil
		},
	}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, "alice", "password", model.RoleVendor)
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if stored.Role != model.RoleVendor {
		t.Fatalf("unexpected stored role %q", stored.Role)
	}
}

func TestAuthUseCaseTokensCarryRole(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	var issued []pkgAuth.Claims
	strategy := testhelpers.StrategyStub{
		IssueFn: func(claims pkgAuth.Claims) (string, error) {
			issued = append(issued, claims)
			return "token", nil
		},
	}
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, strategy)

	ctx := context.Background()
	user, _, err := uc.Register(ctx, "grace", "password", model.RoleVendor)
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "grace", "password"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}

	if len(issued) != 2 {
		t.Fatalf("expected two issued tokens, got %d", len(issued))
	}
	for i, claims := range issued {
		if claims.UserID != user.ID {
			t.Fatalf("token %d carries user %d, want %d", i, claims.UserID, user.ID)
		}
		if claims.Role != string(model.RoleVendor) {
			t.Fatalf("token %d carries role %q, want %q", i, claims.Role, model.RoleVendor)
		}
	}
}

func TestAuthUseCaseRegisterDefaultsToCustomer(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	user, _, err := uc.Register(context.Background(), "dan", "secret", "")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.Role != model.RoleCustomer {
		t.Fatalf("expected customer role, got %q", user.Role)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "bob", "secret", model.RoleCustomer); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "bob", "secret", model.RoleCustomer); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "carol", "123456", model.RoleCustomer); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "nobody", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "carol", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := usecase.NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	id, err := uc.ParseToken("token-42")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := usecase.NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "", "password", model.RoleCustomer); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "user", "", model.RoleCustomer); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "user", "password", "superuser"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error for unknown role, got %v", err)
	}
}

func TestAuthUseCaseRegisterHasherError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub())

	if _, _, err := uc.Register(context.Background(), "erin", "password", model.RoleCustomer); err == nil {
		t.Fatal("expected hasher error to propagate")
	}
	if _, err := repo.GetByLogin(context.Background(), "erin"); err != domainErrors.ErrNotFound {
		t.Fatalf("expected no user stored, got %v", err)
	}
}

func TestAuthUseCaseGetByID(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	repo.Seed(7, "frank", model.RoleVendor)
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	user, err := uc.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Login != "frank" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := uc.GetByID(context.Background(), 404); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
