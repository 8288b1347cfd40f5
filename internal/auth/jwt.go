package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret is returned when the service has no signing secret. There is
	// no fallback secret; callers decide whether that is fatal.
	ErrNoSecret = errors.New("auth: signing secret not configured")

	// ErrInvalidToken covers bad signatures, malformed tokens and expiry.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// TokenService issues and verifies HS256 bearer tokens carrying an account id.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. ttl defaults to one hour.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token whose subject is the account id.
func (s *TokenService) Issue(accountID string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates a token and returns the embedded account id.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
