package auth

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/shoponthefly/backend/internal/users"
	pkgAuth "github.com/shoponthefly/backend/pkg/auth"
	"github.com/shoponthefly/backend/pkg/config"
	"github.com/shoponthefly/backend/pkg/db/models"
	"github.com/shoponthefly/backend/pkg/enums"
	pkgerrors "github.com/shoponthefly/backend/pkg/errors"
	"github.com/shoponthefly/backend/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	nextID  int64
	created []users.CreateUserDTO
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*models.User{}, nextID: 1}
}

func (r *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	r.created = append(r.created, dto)
	user := dto.ToModel()
	user.ID = r.nextID
	r.nextID++
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shoponthefly",
		ExpirationMinutes: 60,
	}
}

func newTestService(t *testing.T, repo userRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:  repo,
		JWTConfig: testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		Email:     "  Buyer@Example.COM ",
		Password:  "hunter22",
		FirstName: "Sam",
		LastName:  "Buyer",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %s", registered.User.Email)
	}
	if registered.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected default customer role, got %s", registered.User.Role)
	}
	if registered.Token == "" {
		t.Fatal("expected a minted token")
	}

	// The stored hash must not be the raw password.
	stored := repo.byEmail["buyer@example.com"]
	if stored.PasswordHash == "hunter22" {
		t.Fatal("password stored in the clear")
	}
	if ok, err := security.VerifyPassword("hunter22", stored.PasswordHash); err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), login.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != registered.User.ID {
		t.Fatalf("expected subject %d, got %d", registered.User.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role claim: %s", claims.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	req := RegisterRequest{Email: "dup@example.com", Password: "hunter22", FirstName: "A", LastName: "B"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email: "buyer@example.com", Password: "hunter22", FirstName: "A", LastName: "B",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []LoginRequest{
		{Email: "buyer@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "hunter22"},
		{Email: "", Password: ""},
	}
	for _, req := range cases {
		_, err := svc.Login(ctx, req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("login %+v: expected unauthorized, got %v", req, err)
		}
		if typed.Message() != "invalid credentials" {
			t.Fatalf("credential failures must not leak detail, got %q", typed.Message())
		}
	}
}
