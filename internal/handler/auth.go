package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/auth"
	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/repository"
	"github.com/iliyamo/movie-review-api/internal/utils"
)

// CredentialStore is the slice of the user store the login endpoint needs.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// AuthHandler implements POST /api/login.
type AuthHandler struct {
	Users  CredentialStore
	Tokens *auth.TokenService
}

func NewAuthHandler(users CredentialStore, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

type loginReq struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=60"`
}

type tokenResp struct {
	Token string `json:"token"`
}

// Login verifies the supplied credentials against the stored bcrypt hash
// and answers with a signed bearer token. Unknown username and wrong
// password are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.Tokens.Issue(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: token})
}
