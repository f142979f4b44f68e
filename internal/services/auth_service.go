package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
	"busbackend/internal/repositories"
	"busbackend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL applies when IssueToken is called without a lifetime.
const DefaultTokenTTL = 15 * time.Minute

// AuthService authenticates users and issues/verifies HS256 bearer tokens.
type AuthService struct {
	Users  repositories.UserRepository
	Hasher PasswordHasher
	Secret []byte
	Now    func() time.Time
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) hasher() PasswordHasher {
	if s.Hasher != nil {
		return s.Hasher
	}
	return DefaultHasher{}
}

// Authenticate checks username and password. Unknown usernames and wrong
// passwords fail identically.
func (s AuthService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.hasher().Verify(dummyHash, password)
			return models.User{}, domain.InvalidCredentialsError{}
		}
		return models.User{}, domain.InternalError{Err: err}
	}
	if !s.hasher().Verify(user.Password, password) || !user.IsActive {
		return models.User{}, domain.InvalidCredentialsError{}
	}

	now := s.now()
	if err := s.Users.TouchLastLogin(ctx, user.ID, now); err != nil {
		utils.LogError("", "auth", "touch_last_login", err)
	} else {
		user.LastLogin = &now
	}
	return user, nil
}

// IssueToken signs a token for username valid for ttl (DefaultTokenTTL when ttl <= 0).
func (s AuthService) IssueToken(username string, ttl time.Duration) (string, error) {
	if len(s.Secret) == 0 {
		return "", domain.InternalError{Msg: "token secret not configured"}
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	return signed, nil
}

// VerifyToken validates signature, algorithm and expiry and resolves the
// subject to a stored user.
func (s AuthService) VerifyToken(ctx context.Context, raw string) (models.User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(s.Secret) == 0 {
		return models.User{}, domain.UnauthenticatedError{}
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return models.User{}, domain.UnauthenticatedError{Err: err}
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return models.User{}, domain.UnauthenticatedError{}
	}

	user, err := s.Users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.UnauthenticatedError{Err: err}
		}
		return models.User{}, domain.InternalError{Err: err}
	}
	if !user.IsActive {
		return models.User{}, domain.UnauthenticatedError{}
	}
	return user, nil
}
