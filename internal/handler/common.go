package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

var errInvalidID = errors.New("invalid id")

// DeleteGuard is the referential-integrity check consulted before any
// delete: it answers ErrHasDependents while dependent rows still reference
// the target. The check is advisory; the store's foreign keys have the
// final word (see repository.IntegrityGuard).
type DeleteGuard interface {
	CanDeleteCategory(ctx context.Context, id int64) error
	CanDeleteMovie(ctx context.Context, id int64) error
	CanDeleteUser(ctx context.Context, id int64) error
}

// parseID reads the :id route parameter as a positive integer. Zero and
// negative values are rejected here; no row can carry such an id.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// reqCtx derives a bounded context for store calls from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
