package repository

import (
	"context"
	"database/sql"
)

// IntegrityGuard answers whether a row may be deleted given the dependents
// that reference it: a category with movies, a movie with reviews or a user
// with reviews may not be removed.
//
// The check and the subsequent delete are not atomic: a dependent inserted
// between the two can still slip through. The schema's RESTRICT foreign
// keys close that race at the store, where the violation comes back as a
// conflict, so the guard here is advisory and exists to give callers the
// 409 answer without tripping the constraint in the common case.
type IntegrityGuard struct{ DB *sql.DB }

func NewIntegrityGuard(db *sql.DB) *IntegrityGuard { return &IntegrityGuard{DB: db} }

// CanDeleteCategory returns ErrHasDependents while movies reference the category.
func (g *IntegrityGuard) CanDeleteCategory(ctx context.Context, id int64) error {
	return g.check(ctx, "SELECT COUNT(*) FROM movie WHERE categoryId=?", id)
}

// CanDeleteMovie returns ErrHasDependents while reviews reference the movie.
func (g *IntegrityGuard) CanDeleteMovie(ctx context.Context, id int64) error {
	return g.check(ctx, "SELECT COUNT(*) FROM review WHERE movieId=?", id)
}

// CanDeleteUser returns ErrHasDependents while reviews reference the user.
func (g *IntegrityGuard) CanDeleteUser(ctx context.Context, id int64) error {
	return g.check(ctx, "SELECT COUNT(*) FROM review WHERE userId=?", id)
}

func (g *IntegrityGuard) check(ctx context.Context, query string, id int64) error {
	var count int64
	if err := g.DB.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return err
	}
	if count != 0 {
		return ErrHasDependents
	}
	return nil
}
