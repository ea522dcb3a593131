package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepforge/cbt-backend/internal/config"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/response"
	"github.com/prepforge/cbt-backend/internal/service"
	"github.com/prepforge/cbt-backend/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type stubUserStore struct {
	users  map[int64]*model.User
	nextID int64
}

func (s *stubUserStore) Create(ctx context.Context, u *model.User) error {
	u.ID = s.nextID
	s.nextID++
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *stubUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserStore) Count(ctx context.Context) (int64, error) { return int64(len(s.users)), nil }

func (s *stubUserStore) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	return nil, nil
}

func (s *stubUserStore) UpdateLastLogin(ctx context.Context, id int64) error { return nil }

func (s *stubUserStore) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	return nil
}

func (s *stubUserStore) Update(ctx context.Context, id int64, patch *model.UserPatch, hashedPassword *string) (int64, error) {
	return 0, nil
}

func (s *stubUserStore) Delete(ctx context.Context, id int64) (int64, error) { return 0, nil }

// newAuthRouter wires a real user service over an in-memory store. The seeded
// account is a content creator so no Redis login registry is involved.
func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		RefreshExpiry: 24 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
	auth := service.NewAuthService(cfg, nil)

	hashed, err := auth.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	store := &stubUserStore{users: map[int64]*model.User{}, nextID: 1}
	if err := store.Create(context.Background(), &model.User{
		Role:           model.RoleContentCreator,
		Email:          "creator@example.com",
		HashedPassword: hashed,
		FullName:       "Casey Creator",
		IsActive:       true,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	userService := service.NewUserService(store, auth, nil, zerolog.Nop())
	h := NewAuthHandler(userService)

	r := gin.New()
	r.POST("/api/v1/auth/login", h.Login)
	r.POST("/api/v1/auth/refresh", h.Refresh)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var envelope response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return w, envelope
}

func TestLoginWrongPasswordReturns401(t *testing.T) {
	r := newAuthRouter(t)

	w, envelope := postJSON(t, r, "/api/v1/auth/login", gin.H{
		"email":    "creator@example.com",
		"password": "not the password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != response.ErrInvalidCredentials {
		t.Errorf("error body = %+v, want code %s", envelope.Error, response.ErrInvalidCredentials)
	}
}

func TestLoginUnknownEmailReturns401(t *testing.T) {
	r := newAuthRouter(t)

	w, envelope := postJSON(t, r, "/api/v1/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != response.ErrInvalidCredentials {
		t.Errorf("error body = %+v, want code %s", envelope.Error, response.ErrInvalidCredentials)
	}
}

func TestLoginSuccessReturnsTokens(t *testing.T) {
	r := newAuthRouter(t)

	w, envelope := postJSON(t, r, "/api/v1/auth/login", gin.H{
		"email":    "creator@example.com",
		"password": "correct horse battery",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", envelope.Data)
	}
	if data["access_token"] == "" || data["refresh_token"] == "" {
		t.Error("token pair incomplete")
	}
}

func TestRefreshGarbageTokenReturns401(t *testing.T) {
	r := newAuthRouter(t)

	w, envelope := postJSON(t, r, "/api/v1/auth/refresh", gin.H{
		"refresh_token": "not-a-jwt",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != response.ErrTokenInvalid {
		t.Errorf("error body = %+v, want code %s", envelope.Error, response.ErrTokenInvalid)
	}
}
