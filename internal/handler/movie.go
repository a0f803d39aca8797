package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

// MovieStore is the persistence capability consumed by the movie endpoints.
type MovieStore interface {
	List(ctx context.Context) ([]model.Movie, error)
	GetByID(ctx context.Context, id int64) (model.Movie, error)
	Create(ctx context.Context, m model.Movie) (int64, error)
	Update(ctx context.Context, id int64, m model.Movie) error
	Delete(ctx context.Context, id int64) error
}

// MovieReviewLister lists the reviews referencing a movie.
type MovieReviewLister interface {
	ListByMovie(ctx context.Context, movieID int64) ([]model.Review, error)
}

// MovieHandler implements the /api/movies endpoints. Mutations run behind
// the admin middleware; reads are public.
type MovieHandler struct {
	Movies  MovieStore
	Reviews MovieReviewLister
	Guard   DeleteGuard
}

func NewMovieHandler(movies MovieStore, reviews MovieReviewLister, guard DeleteGuard) *MovieHandler {
	return &MovieHandler{Movies: movies, Reviews: reviews, Guard: guard}
}

type movieReq struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required,max=5000"`
	Rating      *float64   `json:"rating"`
	AgeRating   *string    `json:"ageRating" validate:"omitempty,max=10"`
	Length      *int64     `json:"length"`
	ReleaseDate *time.Time `json:"releaseDate"`
	CategoryID  int64      `json:"categoryId" validate:"required"`
}

func (r movieReq) toModel() model.Movie {
	return model.Movie{
		Title:       r.Title,
		Description: r.Description,
		Rating:      r.Rating,
		AgeRating:   r.AgeRating,
		Length:      r.Length,
		ReleaseDate: r.ReleaseDate,
		CategoryID:  r.CategoryID,
	}
}

// List handles GET /api/movies; empty collection answers 404.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(movies) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no movies"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /api/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// ListReviews handles GET /api/movies/:id/reviews; no rows means 404.
func (h *MovieHandler) ListReviews(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	reviews, err := h.Reviews.ListByMovie(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(reviews) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no reviews for movie"})
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create handles POST /api/movies (admin). A store refusal, most often a
// categoryId referencing no category, answers 409. The created movie is
// re-read from the store so the response reflects what was persisted.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Movies.Create(ctx, req.toModel())
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "create conflict"})
	}
	created, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/movies/:id (admin). Full-field replace; a store
// refusal answers 409 and a write matching no row answers 400.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Movies.Update(ctx, id, req.toModel()); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoRowsAffected):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie not updated"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "update conflict"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/movies/:id (admin). Refused with 409 while
// reviews still reference the movie; a successful delete returns the
// removed row.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Guard.CanDeleteMovie(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHasDependents) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie has reviews"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "delete conflict"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, m)
}
