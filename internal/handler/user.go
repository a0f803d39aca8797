package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/auth"
	"github.com/iliyamo/movie-review-api/internal/middleware"
	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/repository"
	"github.com/iliyamo/movie-review-api/internal/utils"
)

// UserStore is the persistence capability consumed by the user endpoints.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, u model.User) (int64, error)
	Update(ctx context.Context, id int64, u model.User) error
	Delete(ctx context.Context, id int64) error
}

// UserReviewLister lists the reviews written by a user.
type UserReviewLister interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Review, error)
}

// UserHandler implements the /api/users endpoints. Registration is open to
// anonymous callers and always creates an ordinary user; there is no path
// to an admin account through this API. Update and delete are restricted
// to the account's owner or an admin.
type UserHandler struct {
	Users      UserStore
	Reviews    UserReviewLister
	Guard      DeleteGuard
	BcryptCost int
}

func NewUserHandler(users UserStore, reviews UserReviewLister, guard DeleteGuard, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, Reviews: reviews, Guard: guard, BcryptCost: bcryptCost}
}

type userReq struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=60"`
	Email    string `json:"email" validate:"required,max=100"`
}

// List handles GET /api/users; empty collection answers 404. Password and
// email never leave the model's JSON encoding.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(users) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no users"})
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// ListReviews handles GET /api/users/:id/reviews; no rows means 404.
func (h *UserHandler) ListReviews(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	reviews, err := h.Reviews.ListByUser(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(reviews) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no reviews by user"})
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create handles POST /api/users: anonymous self-registration. The role is
// forced to ordinary user and the password is stored as a bcrypt hash; the
// login contract is unchanged by the hashing.
func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Users.Create(ctx, model.User{
		Username: req.Username,
		Password: hash,
		Email:    req.Email,
		Role:     model.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "create conflict"})
	}
	created, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/users/:id (owner or admin). Username, password
// and email are replaced as a whole; the submitted password is re-hashed.
// The existence check doubles as the ownership lookup and precedes the
// authorization verdict.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	op := auth.Operation{Resource: "user", Access: auth.AccessOwnerOrAdmin, OwnerID: u.ID}
	if err := auth.Authorize(middleware.ClaimsFrom(c), op); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req userReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	if err := h.Users.Update(ctx, id, model.User{Username: req.Username, Password: hash, Email: req.Email}); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoRowsAffected):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user not updated"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "update conflict"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/users/:id (owner or admin). Refused with 409
// while reviews still reference the user; a successful delete returns the
// removed row.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	op := auth.Operation{Resource: "user", Access: auth.AccessOwnerOrAdmin, OwnerID: u.ID}
	if err := auth.Authorize(middleware.ClaimsFrom(c), op); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Guard.CanDeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHasDependents) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user has reviews"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "delete conflict"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, u)
}
