package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-review-api/internal/model"
)

const reviewColumns = "id, rating, description, userId, movieId"

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// List returns all reviews ordered by id.
func (r *ReviewRepo) List(ctx context.Context) ([]model.Review, error) {
	return r.listWhere(ctx, "SELECT "+reviewColumns+" FROM review ORDER BY id")
}

// ListByMovie returns all reviews of the given movie.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	return r.listWhere(ctx, "SELECT "+reviewColumns+" FROM review WHERE movieId=? ORDER BY id", movieID)
}

// ListByUser returns all reviews written by the given user.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID int64) ([]model.Review, error) {
	return r.listWhere(ctx, "SELECT "+reviewColumns+" FROM review WHERE userId=? ORDER BY id", userID)
}

func (r *ReviewRepo) listWhere(ctx context.Context, query string, args ...any) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.Rating, &rev.Description, &rev.UserID, &rev.MovieID); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// GetByID fetches a review by id.
func (r *ReviewRepo) GetByID(ctx context.Context, id int64) (model.Review, error) {
	var rev model.Review
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM review WHERE id=? LIMIT 1", id).
		Scan(&rev.ID, &rev.Rating, &rev.Description, &rev.UserID, &rev.MovieID)
	if err == sql.ErrNoRows {
		return model.Review{}, ErrNotFound
	}
	return rev, err
}

// Create inserts a review and returns its id. Any store error, typically
// a movieId that references no movie, surfaces as ErrConflict.
func (r *ReviewRepo) Create(ctx context.Context, rev model.Review) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO review (rating, description, userId, movieId) VALUES (?,?,?,?)",
		rev.Rating, rev.Description, rev.UserID, rev.MovieID)
	if err != nil {
		return 0, ErrConflict
	}
	return res.LastInsertId()
}

// Update replaces the review's rating and description. Ownership (userId)
// and the reviewed movie never change on update.
func (r *ReviewRepo) Update(ctx context.Context, id int64, rating float64, description string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE review SET rating=?, description=? WHERE id=?", rating, description, id)
	if err != nil {
		return ErrConflict
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// Delete removes a review; ErrConflict when nothing was deleted.
func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM review WHERE id=?", id)
	if err != nil {
		return ErrConflict
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
