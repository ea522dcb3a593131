package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/pagination"
)

// ResetMailer delivers password reset tokens. Implemented by the SES mailer;
// a disabled mailer silently drops mail.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, token string) error
}

// userStore is the slice of the user repository this service touches.
type userStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	Update(ctx context.Context, id int64, patch *model.UserPatch, hashedPassword *string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// UserService handles account management business logic.
type UserService struct {
	userRepo userStore
	auth     *AuthService
	mailer   ResetMailer
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo userStore, auth *AuthService, mailer ResetMailer, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		mailer:   mailer,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Register creates a new account.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	role := model.NormalizeRole(req.Role)
	if !role.Valid() {
		return nil, apperr.Validation("unknown role: " + req.Role)
	}

	hashed, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Role:           role,
		Email:          req.Email,
		HashedPassword: hashed,
		FullName:       req.FullName,
		Institution:    req.Institution,
		StudyLevel:     req.StudyLevel,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Storagef("create user", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login authenticates a user and issues a token pair.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*TokenPair, *model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperr.Authorizationw("invalid email or password", ErrInvalidCredentials)
		}
		return nil, nil, apperr.Storagef("get user", err)
	}

	if !user.IsActive {
		return nil, nil, apperr.Authorization("account is deactivated")
	}

	if err := s.auth.CheckPassword(user.HashedPassword, req.Password); err != nil {
		return nil, nil, apperr.Authorizationw("invalid email or password", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Non-fatal: the login still succeeds.
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to stamp last login")
	}

	tokens, err := s.auth.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return tokens, user, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.auth.ValidateToken(refreshToken)
	if err != nil || claims.TokenUse != TokenUseRefresh {
		return nil, apperr.Authorizationw("invalid refresh token", ErrInvalidToken)
	}

	if err := s.auth.CheckStudentLogin(ctx, claims); err != nil {
		if errors.Is(err, ErrLoginSuperseded) {
			return nil, apperr.Authorizationw("login superseded", err)
		}
		return nil, fmt.Errorf("check login: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Authorizationw("invalid refresh token", ErrInvalidToken)
		}
		return nil, apperr.Storagef("get user", err)
	}
	if !user.IsActive {
		return nil, apperr.Authorization("account is deactivated")
	}

	tokens, err := s.auth.IssueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return tokens, nil
}

// Get retrieves one user.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Storagef("get user", err)
	}
	return user, nil
}

// List retrieves a page of users.
func (s *UserService) List(ctx context.Context, page, limit int) ([]model.User, pagination.Page, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("count users", err)
	}
	window := pagination.Paginate(total, page, limit)

	users, err := s.userRepo.List(ctx, window.Limit, window.Offset)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("list users", err)
	}
	return users, window, nil
}

// Update applies a patch to a user. Administrators may patch anyone;
// everyone else may patch only their own profile and never role or
// active-flag.
func (s *UserService) Update(ctx context.Context, requester Identity, id int64, patch *model.UserPatch) (*model.User, error) {
	if patch.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}

	if !requester.IsAdmin() {
		if requester.UserID != id {
			return nil, apperr.Authorization("cannot update another user")
		}
		if patch.Role != nil || patch.IsActive != nil {
			return nil, apperr.Authorization("role and active flag are admin-only")
		}
	}

	if patch.Role != nil && !model.NormalizeRole(*patch.Role).Valid() {
		return nil, apperr.Validation("unknown role: " + *patch.Role)
	}

	var hashed *string
	if patch.Password != nil {
		h, err := s.auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed = &h
	}

	n, err := s.userRepo.Update(ctx, id, patch, hashed)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Storagef("update user", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("user not found")
	}

	return s.Get(ctx, id)
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	n, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Storagef("delete user", err)
	}
	if n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// RequestPasswordReset issues a reset token and mails it. Unknown addresses
// are ignored so the endpoint cannot be used to probe for accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Debug().Str("email", email).Msg("Password reset requested for unknown address")
			return nil
		}
		return apperr.Storagef("get user", err)
	}

	token, err := s.auth.CreateResetToken(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FullName, token); err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to send reset mail")
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using a valid reset token and clears any
// registered login for the account.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.auth.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return apperr.Authorizationw("invalid or expired reset token", err)
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	hashed, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return apperr.Storagef("update password", err)
	}

	if err := s.auth.ResetLogin(ctx, userID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to clear login after reset")
	}

	s.log.Info().Int64("user_id", userID).Msg("Password reset completed")
	return nil
}
