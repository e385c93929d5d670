package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vc7day/internal/cache"
	"vc7day/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionIssuer  = "vc7day"
	sessionSubject = "admin"
)

// AuthService guards the admin area with one shared password. A successful
// login yields a signed session token; logging out revokes it.
type AuthService struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	rdb          *redis.Client
	revoked      *gocache.Cache
	now          func() time.Time
}

// Session is an issued admin session.
type Session struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAuthService hashes the admin password and prepares token signing.
// rdb may be nil, in which case revocations are kept in process.
func NewAuthService(password, secret string, ttl time.Duration, rdb *redis.Client) (*AuthService, error) {
	if password == "" {
		return nil, errors.New("admin password is required")
	}
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AuthService{
		passwordHash: hash,
		secret:       []byte(secret),
		ttl:          ttl,
		rdb:          rdb,
		revoked:      gocache.New(ttl, 10*time.Minute),
		now:          time.Now,
	}, nil
}

// Login checks the shared password and issues a session token.
func (s *AuthService) Login(_ context.Context, password string) (*Session, error) {
	if password == "" {
		return nil, models.NewValidationError("password is required")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid password")
	}

	now := s.now()
	sessionID := uuid.NewString()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   sessionSubject,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("sign session token: %w", err))
	}
	return &Session{Token: token, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Verify validates a session token and returns its AuthContext.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.AuthContext, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithSubject(sessionSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, models.NewUnauthorizedError("Invalid or expired session")
	}
	if s.isRevoked(ctx, claims.ID) {
		return nil, models.NewUnauthorizedError("Session has been revoked")
	}

	auth := &models.AuthContext{SessionID: claims.ID}
	if claims.IssuedAt != nil {
		auth.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		auth.ExpiresAt = claims.ExpiresAt.Time
	}
	return auth, nil
}

// Logout revokes the session until its token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, auth *models.AuthContext) error {
	if auth == nil || auth.SessionID == "" {
		return models.NewUnauthorizedError("Authentication required")
	}
	remaining := auth.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return nil
	}

	s.revoked.Set(auth.SessionID, struct{}{}, remaining)
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Set(ctx, cache.RevokedSessionKey(auth.SessionID), "1", remaining).Err(); err != nil {
		slog.WarnContext(ctx, "Failed to store session revocation in redis",
			slog.String("session_id", auth.SessionID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (s *AuthService) isRevoked(ctx context.Context, sessionID string) bool {
	if _, found := s.revoked.Get(sessionID); found {
		return true
	}
	if s.rdb == nil {
		return false
	}
	n, err := s.rdb.Exists(ctx, cache.RevokedSessionKey(sessionID)).Result()
	return err == nil && n > 0
}
