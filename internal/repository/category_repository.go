package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-review-api/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM category ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// GetByID fetches a category by id.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (model.Category, error) {
	var cat model.Category
	err := r.DB.QueryRowContext(ctx, "SELECT id, name FROM category WHERE id=? LIMIT 1", id).
		Scan(&cat.ID, &cat.Name)
	if err == sql.ErrNoRows {
		return model.Category{}, ErrNotFound
	}
	return cat, err
}

// Create inserts a category and returns its id.
func (r *CategoryRepo) Create(ctx context.Context, name string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO category (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update replaces the category's name. ErrNoRowsAffected when no row
// matched the id.
func (r *CategoryRepo) Update(ctx context.Context, id int64, name string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE category SET name=? WHERE id=?", name, id)
	if err != nil {
		return err
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

// Delete removes a category. A delete blocked by the movie foreign key, or
// one that removed nothing, surfaces as ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM category WHERE id=?", id)
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
