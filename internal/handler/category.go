package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

// CategoryStore is the persistence capability consumed by the category
// endpoints.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (model.Category, error)
	Create(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// CategoryMovieLister lists the movies referencing a category.
type CategoryMovieLister interface {
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Movie, error)
}

// CategoryHandler implements the /api/categories endpoints. Create, update
// and delete run behind the admin middleware; reads are public.
type CategoryHandler struct {
	Categories CategoryStore
	Movies     CategoryMovieLister
	Guard      DeleteGuard
}

func NewCategoryHandler(categories CategoryStore, movies CategoryMovieLister, guard DeleteGuard) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Movies: movies, Guard: guard}
}

type categoryReq struct {
	Name string `json:"name" validate:"required,max=30"`
}

// List handles GET /api/categories. An empty collection answers 404, not
// an empty list; existing clients depend on it.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(cats) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no categories"})
	}
	return c.JSON(http.StatusOK, cats)
}

// Get handles GET /api/categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cat)
}

// ListMovies handles GET /api/categories/:id/movies. As with every list,
// no rows means 404.
func (h *CategoryHandler) ListMovies(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	movies, err := h.Movies.ListByCategory(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(movies) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no movies in category"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Create handles POST /api/categories (admin).
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Categories.Create(ctx, req.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, model.Category{ID: id, Name: req.Name})
}

// Update handles PUT /api/categories/:id (admin). A write that matched no
// row answers 400.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := bind(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Categories.Update(ctx, id, req.Name); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not updated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/categories/:id (admin). The delete is refused
// with 409 while movies still reference the category; a successful delete
// returns the removed row.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Guard.CanDeleteCategory(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHasDependents) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category has movies"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "delete conflict"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, cat)
}
