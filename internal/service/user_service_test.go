package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/model"
)

type fakeUserStore struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*model.User{}, nextID: 1}
}

func (f *fakeUserStore) Create(ctx context.Context, u *model.User) error {
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	return nil, nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id int64) error { return nil }

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	if u, ok := f.users[id]; ok {
		u.HashedPassword = hashed
	}
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, id int64, patch *model.UserPatch, hashedPassword *string) (int64, error) {
	if _, ok := f.users[id]; !ok {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := f.users[id]; !ok {
		return 0, nil
	}
	delete(f.users, id)
	return 1, nil
}

// newTestUserService seeds one active content creator so login paths run
// without Redis.
func newTestUserService(t *testing.T) (*UserService, *model.User) {
	t.Helper()
	auth := newTestAuthService()
	store := newFakeUserStore()

	hashed, err := auth.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &model.User{
		Role:           model.RoleContentCreator,
		Email:          "creator@example.com",
		HashedPassword: hashed,
		FullName:       "Casey Creator",
		IsActive:       true,
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return NewUserService(store, auth, nil, zerolog.Nop()), user
}

func TestLoginWrongPassword(t *testing.T) {
	svc, user := newTestUserService(t)

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "not the password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("kind = %v, want KindAuthorization", apperr.KindOf(err))
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, user := newTestUserService(t)

	tokens, got, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("token pair incomplete")
	}
	if got.ID != user.ID {
		t.Errorf("user id = %d, want %d", got.ID, user.ID)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("kind = %v, want KindAuthorization", apperr.KindOf(err))
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, user := newTestUserService(t)

	tokens, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Refresh(context.Background(), tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token as refresh: got %v, want ErrInvalidToken", err)
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, user := newTestUserService(t)

	tokens, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatal(err)
	}

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Error("refreshed pair incomplete")
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, user := newTestUserService(t)
	store := svc.userRepo.(*fakeUserStore)
	store.users[user.ID].IsActive = false

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "correct horse battery",
	})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("kind = %v, want KindAuthorization", apperr.KindOf(err))
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("deactivated account reported as bad credentials")
	}
}
