package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/internal/users"
	pkgAuth "github.com/relovedmarket/reloved-backend/pkg/auth"
	"github.com/relovedmarket/reloved-backend/pkg/auth/session"
	"github.com/relovedmarket/reloved-backend/pkg/config"
	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, input users.CreateUserInput) (*models.User, error) {
	email := strings.ToLower(input.Email)
	if _, exists := f.byEmail[email]; exists {
		return nil, fmt.Errorf("duplicate key value violates unique constraint %q", "uq_users_email")
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: input.PasswordHash,
		FullName:     input.FullName,
		Role:         input.Role,
	}
	f.byEmail[email] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeSessionManager struct {
	sessions map[string]string
	revoked  []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: make(map[string]string)}
}

func (f *fakeSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.sessions[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.sessions, oldAccessID)
	newID := uuid.NewString()
	token := "refresh-" + newID
	f.sessions[newID] = token
	return newID, token, nil
}

func (f *fakeSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(f.sessions, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "reloved-test",
		ExpirationMinutes: 15,
	}
}

func newTestService(t *testing.T) (Service, *fakeUserRepo, *fakeSessionManager) {
	t.Helper()
	repo := newFakeUserRepo()
	sessions := newFakeSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "Buyer@Example.com",
		Password: "super-secret-pw",
		FullName: "Buyer One",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != enums.UserRoleCustomer.String() {
		t.Fatalf("expected customer role, got %s", resp.User.Role)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if _, ok := repo.byEmail["buyer@example.com"]; !ok {
		t.Fatal("email should be stored lowercased")
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "super-secret-pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatal("token should carry the user id")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "dup@example.com", Password: "super-secret-pw", FullName: "Dup"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, req)
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	hash, err := security.HashPassword("right-password", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := repo.Create(ctx, users.CreateUserInput{
		Email:        "user@example.com",
		PasswordHash: hash,
		FullName:     "User",
		Role:         enums.UserRoleCustomer,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "user@example.com", Password: "wrong"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "rotate@example.com",
		Password: "super-secret-pw",
		FullName: "Rotate",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair.AccessToken == resp.AccessToken || pair.RefreshToken == resp.RefreshToken {
		t.Fatal("refresh should mint a new pair")
	}

	// Old pair is dead after rotation.
	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized on replayed refresh, got %v", err)
	}
	if len(sessions.sessions) != 1 {
		t.Fatalf("expected exactly one live session, got %d", len(sessions.sessions))
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "leave@example.com",
		Password: "super-secret-pw",
		FullName: "Leaver",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Logout(ctx, LogoutRequest{AccessToken: resp.AccessToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("expected one revoked session, got %d", len(sessions.revoked))
	}
	if err := svc.Logout(ctx, LogoutRequest{AccessToken: "garbage"}); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for bad token, got %v", err)
	}
}
