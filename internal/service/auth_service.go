package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepforge/cbt-backend/internal/config"
	"github.com/prepforge/cbt-backend/internal/model"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrLoginSuperseded    = errors.New("login superseded by a newer session")
)

// TokenUse distinguishes access from refresh tokens.
type TokenUse string

const (
	TokenUseAccess  TokenUse = "access"
	TokenUseRefresh TokenUse = "refresh"
)

// resetTokenTTL bounds how long a password reset link stays valid.
const resetTokenTTL = time.Hour

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenUse TokenUse   `json:"token_use"`
	UserID   int64      `json:"user_id"`
	Role     model.Role `json:"role"`
}

// Identity converts claims into the domain identity handed to services.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Role: c.Role}
}

// AuthService handles password hashing, JWT issuance and the Redis-backed
// login registry. Students are limited to one active device: each login
// stores its JTI, and middleware rejects tokens whose JTI no longer matches.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// TokenPair bundles the tokens returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IssueTokens creates an access/refresh pair for a user. Student logins are
// registered in Redis; a new login displaces any previous device.
func (s *AuthService) IssueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	jti := uuid.New().String()

	access, err := s.sign(user, jti, TokenUseAccess, s.cfg.JWTExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(user, jti, TokenUseRefresh, s.cfg.RefreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if user.Role == model.RoleStudent {
		loginKey := config.CacheKey.UserLoginKey(user.ID)
		if err := s.rdb.Set(ctx, loginKey, jti, s.cfg.RefreshExpiry).Err(); err != nil {
			return nil, fmt.Errorf("register login: %w", err)
		}
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sign(user *model.User, jti string, use TokenUse, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		TokenUse: use,
		UserID:   user.ID,
		Role:     user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateAccess validates an access token specifically.
func (s *AuthService) ValidateAccess(tokenStr string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenUse != TokenUseAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CheckStudentLogin verifies the token's JTI is still the registered login
// for a student. Non-student roles always pass.
func (s *AuthService) CheckStudentLogin(ctx context.Context, claims *Claims) error {
	if claims.Role != model.RoleStudent {
		return nil
	}
	stored, err := s.rdb.Get(ctx, config.CacheKey.UserLoginKey(claims.UserID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrLoginSuperseded
		}
		return fmt.Errorf("check login: %w", err)
	}
	if stored != claims.ID {
		return ErrLoginSuperseded
	}
	return nil
}

// ResetLogin clears a user's registered login, forcing re-authentication.
func (s *AuthService) ResetLogin(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, config.CacheKey.UserLoginKey(userID)).Err()
}

// CreateResetToken issues a one-hour password reset token for a user.
func (s *AuthService) CreateResetToken(ctx context.Context, userID int64) (string, error) {
	token := uuid.New().String()
	key := config.CacheKey.PasswordResetKey(token)
	if err := s.rdb.Set(ctx, key, userID, resetTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// ConsumeResetToken validates and invalidates a reset token, returning the
// user it was issued for. A token is single-use.
func (s *AuthService) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	key := config.CacheKey.PasswordResetKey(token)
	val, err := s.rdb.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrInvalidToken
		}
		return 0, fmt.Errorf("consume reset token: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
