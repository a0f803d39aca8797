package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/auth"
	"github.com/iliyamo/movie-review-api/internal/middleware"
	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/queue"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

// ReviewStore is the persistence capability consumed by the review
// endpoints.
type ReviewStore interface {
	List(ctx context.Context) ([]model.Review, error)
	GetByID(ctx context.Context, id int64) (model.Review, error)
	Create(ctx context.Context, rev model.Review) (int64, error)
	Update(ctx context.Context, id int64, rating float64, description string) error
	Delete(ctx context.Context, id int64) error
}

// ReviewEventPublisher announces a created review to the message broker.
// Publishing is best effort; a broker failure never fails the request.
type ReviewEventPublisher interface {
	ReviewCreated(ctx context.Context, ev queue.ReviewCreatedEvent) error
}

// ReviewHandler implements the /api/reviews endpoints. Creation requires
// any valid token; update and delete are restricted to the review's owner
// or an admin.
type ReviewHandler struct {
	Reviews ReviewStore
	Events  ReviewEventPublisher // optional
}

func NewReviewHandler(reviews ReviewStore, events ReviewEventPublisher) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Events: events}
}

type reviewCreateReq struct {
	Rating      float64 `json:"rating" validate:"required"`
	Description string  `json:"description" validate:"required,max=5000"`
	MovieID     int64   `json:"movieId" validate:"required"`
}

type reviewUpdateReq struct {
	Rating      float64 `json:"rating" validate:"required"`
	Description string  `json:"description" validate:"required,max=5000"`
}

// List handles GET /api/reviews; empty collection answers 404.
func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	reviews, err := h.Reviews.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(reviews) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no reviews"})
	}
	return c.JSON(http.StatusOK, reviews)
}

// Get handles GET /api/reviews/:id.
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rev)
}

// Create handles POST /api/reviews. The owning user id always comes from
// the token's id claim, never from client input. A store refusal, most
// often a movieId referencing no movie, answers 409.
func (h *ReviewHandler) Create(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewCreateReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Reviews.Create(ctx, model.Review{
		Rating:      req.Rating,
		Description: req.Description,
		UserID:      claims.UserID,
		MovieID:     req.MovieID,
	})
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "create conflict"})
	}
	created, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if h.Events != nil {
		ev := queue.ReviewCreatedEvent{
			ReviewID:  created.ID,
			MovieID:   created.MovieID,
			UserID:    created.UserID,
			Username:  claims.Username,
			Rating:    created.Rating,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Events.ReviewCreated(ctx, ev); err != nil {
			c.Logger().Warnf("publish review.created failed: %v", err)
		}
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/reviews/:id. The existence check doubles as the
// ownership lookup and precedes the authorization verdict, so a missing
// review answers 404 even to an unauthorized caller. Only rating and
// description are replaced.
func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	op := auth.Operation{Resource: "review", Access: auth.AccessOwnerOrAdmin, OwnerID: rev.UserID}
	if err := auth.Authorize(middleware.ClaimsFrom(c), op); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req reviewUpdateReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Reviews.Update(ctx, id, req.Rating, req.Description); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoRowsAffected):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "review not updated"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "update conflict"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/reviews/:id (owner or admin). A successful
// delete returns the removed row.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	op := auth.Operation{Resource: "review", Access: auth.AccessOwnerOrAdmin, OwnerID: rev.UserID}
	if err := auth.Authorize(middleware.ClaimsFrom(c), op); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "delete conflict"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, rev)
}
