package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/auth"
)

// claimsKey is the context key under which RequireToken stores the decoded
// claims for handlers and downstream middleware.
const claimsKey = "claims"

// RequireToken returns an Echo middleware that extracts and verifies the
// Bearer token of a request and injects the decoded claims into the
// context. The two failure classes map to distinct statuses:
//
//   - a missing or malformed Authorization header yields 403 Forbidden
//   - a present but invalid or expired token yields 401 Unauthorized
//
// The asymmetry is part of the external contract and must not be
// collapsed into a single status.
func RequireToken(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := auth.FromHeader(c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin aborts the request with 401 unless the claims stored by
// RequireToken carry the admin role. Ownership-gated operations do not use
// this; they consult the policy engine in the handler after loading the
// target row.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if err := auth.Authorize(claims, auth.Operation{Access: auth.AccessAdmin}); err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by RequireToken, or nil when the
// request carried no valid token.
func ClaimsFrom(c echo.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey).(*auth.Claims); ok {
		return v
	}
	return nil
}

// SetClaims stores claims in the context under the same key RequireToken
// uses. Exported for handler tests that bypass the middleware chain.
func SetClaims(c echo.Context, claims *auth.Claims) { c.Set(claimsKey, claims) }
