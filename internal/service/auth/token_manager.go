package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"printshop/internal/domain"
	tokenrepo "printshop/internal/repository/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type accessClaims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// tokenManager issues signed access tokens and stores opaque refresh
// tokens. Refresh tokens are single use: Rotate deletes the old one
// before issuing its replacement.
type tokenManager struct {
	repo       tokenrepo.Repository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newTokenManager(repo tokenrepo.Repository, secret string, accessTTL, refreshTTL time.Duration) *tokenManager {
	return &tokenManager{
		repo:       repo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (m *tokenManager) IssueAccess(userID int64, role string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *tokenManager) IssueRefresh(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	err := m.repo.Create(ctx, tokenrepo.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.refreshTTL),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ValidateAccess parses a bearer token and returns the identity baked
// into it.
func (m *tokenManager) ValidateAccess(token string) (int64, string, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", domain.ErrInvalidToken
	}
	return claims.UserID, claims.Role, nil
}

// Rotate consumes a refresh token and returns the owner plus a fresh
// token. A reused or expired token fails with ErrInvalidToken.
func (m *tokenManager) Rotate(ctx context.Context, token string) (int64, string, error) {
	stored, err := m.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, "", domain.ErrInvalidToken
		}
		return 0, "", err
	}
	if err := m.repo.Delete(ctx, token); err != nil {
		return 0, "", err
	}
	if time.Now().After(stored.ExpiresAt) {
		return 0, "", domain.ErrInvalidToken
	}
	next, err := m.IssueRefresh(ctx, stored.UserID)
	if err != nil {
		return 0, "", err
	}
	return stored.UserID, next, nil
}

func (m *tokenManager) RevokeAll(ctx context.Context, userID int64) error {
	return m.repo.DeleteByUser(ctx, userID)
}
