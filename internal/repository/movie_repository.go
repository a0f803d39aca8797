package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-review-api/internal/model"
)

const movieColumns = "id, title, description, rating, ageRating, length, releaseDate, categoryId"

type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var m model.Movie
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Rating, &m.AgeRating, &m.Length, &m.ReleaseDate, &m.CategoryID)
	return m, err
}

// List returns all movies ordered by id.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	return r.listWhere(ctx, "SELECT "+movieColumns+" FROM movie ORDER BY id")
}

// ListByCategory returns all movies referencing the given category.
func (r *MovieRepo) ListByCategory(ctx context.Context, categoryID int64) ([]model.Movie, error) {
	return r.listWhere(ctx, "SELECT "+movieColumns+" FROM movie WHERE categoryId=? ORDER BY id", categoryID)
}

func (r *MovieRepo) listWhere(ctx context.Context, query string, args ...any) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID fetches a movie by id.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (model.Movie, error) {
	m, err := scanMovie(r.DB.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movie WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Movie{}, ErrNotFound
	}
	return m, err
}

// Create inserts a movie and returns its id. Any store error, most
// commonly a categoryId that references no category, is surfaced as
// ErrConflict.
func (r *MovieRepo) Create(ctx context.Context, m model.Movie) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movie (title, description, rating, ageRating, length, releaseDate, categoryId) VALUES (?,?,?,?,?,?,?)",
		m.Title, m.Description, m.Rating, m.AgeRating, m.Length, m.ReleaseDate, m.CategoryID)
	if err != nil {
		return 0, ErrConflict
	}
	return res.LastInsertId()
}

// Update replaces every mutable column of the movie (full-field replace, no
// partial patch). Store errors surface as ErrConflict, a write matching no
// row as ErrNoRowsAffected.
func (r *MovieRepo) Update(ctx context.Context, id int64, m model.Movie) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movie SET title=?, description=?, rating=?, ageRating=?, length=?, releaseDate=?, categoryId=? WHERE id=?",
		m.Title, m.Description, m.Rating, m.AgeRating, m.Length, m.ReleaseDate, m.CategoryID, id)
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

// Delete removes a movie. Zero rows deleted, or a restriction from reviews
// still referencing it, both surface as ErrConflict.
func (r *MovieRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movie WHERE id=?", id)
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
