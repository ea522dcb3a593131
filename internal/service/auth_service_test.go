package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/prepforge/cbt-backend/internal/config"
	"github.com/prepforge/cbt-backend/internal/model"
)

func newTestAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		RefreshExpiry: 24 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
	return NewAuthService(cfg, nil)
}

func TestPasswordHashing(t *testing.T) {
	svc := newTestAuthService()

	hash, err := svc.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "password123" {
		t.Fatal("password stored in plaintext")
	}
	if err := svc.CheckPassword(hash, "password123"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService()
	// Non-student roles skip the Redis login registry, so no client is needed.
	user := &model.User{ID: 42, Role: model.RoleContentCreator}

	pair, err := svc.IssueTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	claims, err := svc.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Role != model.RoleContentCreator {
		t.Errorf("role = %q, want %q", claims.Role, model.RoleContentCreator)
	}
	if claims.ID == "" {
		t.Error("jti not set")
	}

	identity := claims.Identity()
	if !identity.CanManageContent() || identity.IsAdmin() {
		t.Errorf("identity = %+v, want content manager without admin", identity)
	}
}

func TestRefreshTokenIsNotAccess(t *testing.T) {
	svc := newTestAuthService()
	user := &model.User{ID: 42, Role: model.RoleAdministrator}

	pair, err := svc.IssueTokens(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ValidateAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh as access: got %v, want ErrInvalidToken", err)
	}
	claims, err := svc.ValidateToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token should still parse: %v", err)
	}
	if claims.TokenUse != TokenUseRefresh {
		t.Errorf("token use = %q, want %q", claims.TokenUse, TokenUseRefresh)
	}
}

func TestTokenSignatureChecked(t *testing.T) {
	svc := newTestAuthService()
	user := &model.User{ID: 42, Role: model.RoleAdministrator}

	pair, err := svc.IssueTokens(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}

	other := NewAuthService(&config.Config{
		JWTSecret:     "a-different-secret",
		JWTExpiry:     time.Hour,
		RefreshExpiry: 24 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}, nil)
	if _, err := other.ValidateToken(pair.AccessToken); err == nil {
		t.Error("token accepted under a different secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newTestAuthService()
	svc.cfg.JWTExpiry = -time.Minute

	user := &model.User{ID: 42, Role: model.RoleAdministrator}
	pair, err := svc.IssueTokens(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateAccess(pair.AccessToken); err == nil {
		t.Error("expired token accepted")
	}
}
