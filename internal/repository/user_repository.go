package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-review-api/internal/model"
)

const userColumns = "id, username, password, email, creationDate, lastLoginDate, role"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM `user` ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreationDate, &u.LastLoginDate, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM `user` WHERE id=? LIMIT 1", id).
		Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreationDate, &u.LastLoginDate, &u.Role)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByUsername fetches a user by username for login.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM `user` WHERE username=? LIMIT 1", username).
		Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreationDate, &u.LastLoginDate, &u.Role)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Create inserts a user and returns its id. The password must already be
// hashed by the caller; creationDate is assigned by the schema default.
func (r *UserRepo) Create(ctx context.Context, u model.User) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO `user` (username, password, email, role) VALUES (?,?,?,?)",
		u.Username, u.Password, u.Email, u.Role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, ErrConflict
	}
	return res.LastInsertId()
}

// Update replaces username, password and email of the given user. A write
// that matches no row yields ErrNoRowsAffected; any store error is
// surfaced as ErrConflict to keep the client-facing contract stable.
func (r *UserRepo) Update(ctx context.Context, id int64, u model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE `user` SET username=?, password=?, email=? WHERE id=?",
		u.Username, u.Password, u.Email, id)
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

// Delete removes a user. Zero rows deleted, or a foreign-key restriction
// from reviews still referencing the user, both surface as ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM `user` WHERE id=?", id)
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
