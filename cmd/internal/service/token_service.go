package service

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"slotly/cmd/internal/domain/entity"
	"time"
)

// TokenLifetime is fixed; tokens are never refreshed or revoked.
const TokenLifetime = time.Hour

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the token payload: the three identity fields plus expiry.
type Claims struct {
	UserID   string      `json:"id"`
	Username string      `json:"username"`
	Role     entity.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() *entity.Identity {
	return &entity.Identity{ID: c.UserID, Username: c.Username, Role: c.Role}
}

type TokenService interface {
	Issue(identity *entity.Identity) (string, error)
	Verify(token string) (*Claims, error)
}

type jwtTokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret []byte) (TokenService, error) {
	return newJWTTokenService(secret, time.Now)
}

func newJWTTokenService(secret []byte, now func() time.Time) (*jwtTokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing secret is empty")
	}
	return &jwtTokenService{secret: secret, now: now}, nil
}

func (s *jwtTokenService) Issue(identity *entity.Identity) (string, error) {
	if identity == nil {
		return "", errors.New("cannot issue token without identity")
	}
	claims := Claims{
		UserID:   identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(TokenLifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token for %s: %w", identity.ID, err)
	}
	return signed, nil
}

func (s *jwtTokenService) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
