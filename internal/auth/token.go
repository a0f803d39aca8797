// Package auth implements the bearer token service and the access policy
// engine behind it.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/movie-review-api/internal/model"
)

// Sentinel errors returned by the token service. The split matters to the
// HTTP adapter: header problems map to a Forbidden-class response while a
// present-but-bad token maps to Unauthorized.
var (
	ErrNoAuthHeader  = errors.New("authorization header missing")
	ErrBadAuthHeader = errors.New("authorization header malformed")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// Claims is the decoded payload of a bearer token. The wire claims are
// `exp` (unix seconds), `role` (single character), `id` (numeric user id)
// and `user` (username).
type Claims struct {
	UserID    int64
	Username  string
	Role      string
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 bearer tokens with a single shared
// secret. Tokens are stateless: the server keeps no session record and a
// token stays valid until its expiry instant.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService from the configured signing secret
// and token lifetime.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user. The payload carries the user's
// id, username, role and an expiry of issue time plus the configured TTL.
func (s *TokenService) Issue(u model.User) (string, error) {
	exp := time.Now().UTC().Add(s.ttl)
	claims := jwt.MapClaims{
		"exp":  exp.Unix(),
		"role": u.Role,
		"id":   u.ID,
		"user": u.Username,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Parse verifies the signature and expiry of a raw token and decodes its
// claims. It returns ErrTokenExpired for a token past its expiry instant
// and ErrTokenInvalid for any other verification failure.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalid
	}

	c := &Claims{}
	if v, ok := mc["id"].(float64); ok { // JSON numbers decode as float64
		c.UserID = int64(v)
	} else {
		return nil, ErrTokenInvalid
	}
	if v, ok := mc["role"].(string); ok {
		c.Role = v
	} else {
		return nil, ErrTokenInvalid
	}
	if v, ok := mc["user"].(string); ok {
		c.Username = v
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// FromHeader extracts the raw token from an Authorization header value.
// The header must consist of exactly two space-separated fields with the
// first case-insensitively equal to "bearer".
func FromHeader(header string) (string, error) {
	if header == "" {
		return "", ErrNoAuthHeader
	}
	fields := strings.Split(header, " ")
	if len(fields) != 2 {
		return "", ErrBadAuthHeader
	}
	if !strings.EqualFold(fields[0], "bearer") {
		return "", ErrBadAuthHeader
	}
	return fields[1], nil
}
