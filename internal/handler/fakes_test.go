package handler

// In-memory store fakes backing the handler tests. They reproduce the
// repository sentinel-error contract so the handlers see the same failure
// shapes as against MySQL.

import (
	"context"
	"io"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

func testEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newRequest(e *echo.Echo, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setID(c echo.Context, id int64) {
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(id, 10))
}

func sortedIDs[M any](m map[int64]M) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// fakeGuard blocks deletes for ids listed in the dependent sets.
type fakeGuard struct {
	categoryDeps map[int64]bool
	movieDeps    map[int64]bool
	userDeps     map[int64]bool
}

func (g *fakeGuard) CanDeleteCategory(_ context.Context, id int64) error {
	if g.categoryDeps[id] {
		return repository.ErrHasDependents
	}
	return nil
}

func (g *fakeGuard) CanDeleteMovie(_ context.Context, id int64) error {
	if g.movieDeps[id] {
		return repository.ErrHasDependents
	}
	return nil
}

func (g *fakeGuard) CanDeleteUser(_ context.Context, id int64) error {
	if g.userDeps[id] {
		return repository.ErrHasDependents
	}
	return nil
}

type fakeCategoryStore struct {
	cats   map[int64]model.Category
	nextID int64
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{cats: map[int64]model.Category{}}
}

func (s *fakeCategoryStore) List(context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, id := range sortedIDs(s.cats) {
		out = append(out, s.cats[id])
	}
	return out, nil
}

func (s *fakeCategoryStore) GetByID(_ context.Context, id int64) (model.Category, error) {
	cat, ok := s.cats[id]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return cat, nil
}

func (s *fakeCategoryStore) Create(_ context.Context, name string) (int64, error) {
	s.nextID++
	s.cats[s.nextID] = model.Category{ID: s.nextID, Name: name}
	return s.nextID, nil
}

func (s *fakeCategoryStore) Update(_ context.Context, id int64, name string) error {
	if _, ok := s.cats[id]; !ok {
		return repository.ErrNoRowsAffected
	}
	s.cats[id] = model.Category{ID: id, Name: name}
	return nil
}

func (s *fakeCategoryStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.cats[id]; !ok {
		return repository.ErrConflict
	}
	delete(s.cats, id)
	return nil
}

type fakeMovieStore struct {
	movies    map[int64]model.Movie
	nextID    int64
	createErr error // forced insert failure (e.g. dangling categoryId)
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: map[int64]model.Movie{}}
}

func (s *fakeMovieStore) List(context.Context) ([]model.Movie, error) {
	var out []model.Movie
	for _, id := range sortedIDs(s.movies) {
		out = append(out, s.movies[id])
	}
	return out, nil
}

func (s *fakeMovieStore) ListByCategory(_ context.Context, categoryID int64) ([]model.Movie, error) {
	var out []model.Movie
	for _, id := range sortedIDs(s.movies) {
		if s.movies[id].CategoryID == categoryID {
			out = append(out, s.movies[id])
		}
	}
	return out, nil
}

func (s *fakeMovieStore) GetByID(_ context.Context, id int64) (model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return model.Movie{}, repository.ErrNotFound
	}
	return m, nil
}

func (s *fakeMovieStore) Create(_ context.Context, m model.Movie) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextID++
	m.ID = s.nextID
	s.movies[m.ID] = m
	return m.ID, nil
}

func (s *fakeMovieStore) Update(_ context.Context, id int64, m model.Movie) error {
	if _, ok := s.movies[id]; !ok {
		return repository.ErrNoRowsAffected
	}
	m.ID = id
	s.movies[id] = m
	return nil
}

func (s *fakeMovieStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.movies[id]; !ok {
		return repository.ErrConflict
	}
	delete(s.movies, id)
	return nil
}

type fakeReviewStore struct {
	reviews   map[int64]model.Review
	nextID    int64
	createErr error
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: map[int64]model.Review{}}
}

func (s *fakeReviewStore) List(context.Context) ([]model.Review, error) {
	var out []model.Review
	for _, id := range sortedIDs(s.reviews) {
		out = append(out, s.reviews[id])
	}
	return out, nil
}

func (s *fakeReviewStore) ListByMovie(_ context.Context, movieID int64) ([]model.Review, error) {
	var out []model.Review
	for _, id := range sortedIDs(s.reviews) {
		if s.reviews[id].MovieID == movieID {
			out = append(out, s.reviews[id])
		}
	}
	return out, nil
}

func (s *fakeReviewStore) ListByUser(_ context.Context, userID int64) ([]model.Review, error) {
	var out []model.Review
	for _, id := range sortedIDs(s.reviews) {
		if s.reviews[id].UserID == userID {
			out = append(out, s.reviews[id])
		}
	}
	return out, nil
}

func (s *fakeReviewStore) GetByID(_ context.Context, id int64) (model.Review, error) {
	rev, ok := s.reviews[id]
	if !ok {
		return model.Review{}, repository.ErrNotFound
	}
	return rev, nil
}

func (s *fakeReviewStore) Create(_ context.Context, rev model.Review) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextID++
	rev.ID = s.nextID
	s.reviews[rev.ID] = rev
	return rev.ID, nil
}

func (s *fakeReviewStore) Update(_ context.Context, id int64, rating float64, description string) error {
	rev, ok := s.reviews[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	rev.Rating = rating
	rev.Description = description
	s.reviews[id] = rev
	return nil
}

func (s *fakeReviewStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.reviews[id]; !ok {
		return repository.ErrConflict
	}
	delete(s.reviews, id)
	return nil
}

type fakeUserStore struct {
	users  map[int64]model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]model.User{}}
}

func (s *fakeUserStore) List(context.Context) ([]model.User, error) {
	var out []model.User
	for _, id := range sortedIDs(s.users) {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, id := range sortedIDs(s.users) {
		if s.users[id].Username == username {
			return s.users[id], nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) (int64, error) {
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return 0, repository.ErrUsernameExists
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *fakeUserStore) Update(_ context.Context, id int64, u model.User) error {
	existing, ok := s.users[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	existing.Username = u.Username
	existing.Password = u.Password
	existing.Email = u.Email
	s.users[id] = existing
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrConflict
	}
	delete(s.users, id)
	return nil
}
