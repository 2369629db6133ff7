// token.go - Issues and verifies JWT access tokens

package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go-blog-backend/apperror"
	"go-blog-backend/models"
	"go-blog-backend/repository"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by an access token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UserFinder resolves a token subject to a user.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// TokenService issues stateless HS256 tokens. There is no revocation list:
// a token stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	users  UserFinder
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, issuer string, users UserFinder) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, issuer: issuer, users: users, now: time.Now}
}

// Issue signs a token bound to user.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates signature, algorithm, issuer and expiry of raw.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Verify returns the user bound to raw. Every failure, including a user that no
// longer exists, is reported as unauthorized.
func (s *TokenService) Verify(ctx context.Context, raw string) (*models.User, error) {
	if raw == "" {
		return nil, apperror.Unauthorized()
	}
	claims, err := s.Parse(raw)
	if err != nil {
		return nil, apperror.Unauthorized()
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized()
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user.Email != claims.Email { // id now belongs to someone else
		return nil, apperror.Unauthorized()
	}
	return user, nil
}
