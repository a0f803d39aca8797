package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/iliyamo/movie-review-api/internal/model"
)

func newCategoryHandler() (*CategoryHandler, *fakeCategoryStore, *fakeGuard) {
	cats := newFakeCategoryStore()
	guard := &fakeGuard{categoryDeps: map[int64]bool{}}
	h := NewCategoryHandler(cats, newFakeMovieStore(), guard)
	return h, cats, guard
}

func TestCategoryListEmpty(t *testing.T) {
	h, _, _ := newCategoryHandler()
	e := testEcho()

	c, rec := newRequest(e, http.MethodGet, "")
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty list: status = %d, want 404", rec.Code)
	}
}

func TestCategoryCreateThenGet(t *testing.T) {
	h, _, _ := newCategoryHandler()
	e := testEcho()

	c, rec := newRequest(e, http.MethodPost, `{"name":"Drama"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body)
	}
	var created model.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if created.ID == 0 || created.Name != "Drama" {
		t.Fatalf("created = %+v", created)
	}

	c, rec = newRequest(e, http.MethodGet, "")
	setID(c, created.ID)
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got model.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got != created {
		t.Errorf("Get = %+v, want %+v", got, created)
	}
}

func TestCategoryCreateRejectsLongName(t *testing.T) {
	h, _, _ := newCategoryHandler()
	e := testEcho()

	c, rec := newRequest(e, http.MethodPost, `{"name":"`+strings.Repeat("x", 31)+`"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("31-char name: status = %d, want 400", rec.Code)
	}
}

func TestCategoryUpdateMissing(t *testing.T) {
	h, _, _ := newCategoryHandler()
	e := testEcho()

	c, rec := newRequest(e, http.MethodPut, `{"name":"Thriller"}`)
	setID(c, 99)
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("update of absent row: status = %d, want 400", rec.Code)
	}
}

func TestCategoryUpdate(t *testing.T) {
	h, cats, _ := newCategoryHandler()
	e := testEcho()
	id, _ := cats.Create(context.Background(), "Drama")

	c, rec := newRequest(e, http.MethodPut, `{"name":"Thriller"}`)
	setID(c, id)
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204; body %s", rec.Code, rec.Body)
	}
	if got, _ := cats.GetByID(context.Background(), id); got.Name != "Thriller" {
		t.Errorf("stored name = %q, want Thriller", got.Name)
	}
}

func TestCategoryDelete(t *testing.T) {
	e := testEcho()

	t.Run("missing", func(t *testing.T) {
		h, _, _ := newCategoryHandler()
		c, rec := newRequest(e, http.MethodDelete, "")
		setID(c, 5)
		if err := h.Delete(c); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("with movies", func(t *testing.T) {
		h, cats, guard := newCategoryHandler()
		id, _ := cats.Create(context.Background(), "Drama")
		guard.categoryDeps[id] = true

		c, rec := newRequest(e, http.MethodDelete, "")
		setID(c, id)
		if err := h.Delete(c); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
		if _, err := cats.GetByID(context.Background(), id); err != nil {
			t.Error("category was deleted despite dependents")
		}
	})

	t.Run("success returns row", func(t *testing.T) {
		h, cats, _ := newCategoryHandler()
		id, _ := cats.Create(context.Background(), "Drama")

		c, rec := newRequest(e, http.MethodDelete, "")
		setID(c, id)
		if err := h.Delete(c); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got model.Category
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if got.ID != id || got.Name != "Drama" {
			t.Errorf("body = %+v", got)
		}
		if _, err := cats.GetByID(context.Background(), id); err == nil {
			t.Error("category still present after delete")
		}
	})
}

func TestCategoryListMoviesEmpty(t *testing.T) {
	h, cats, _ := newCategoryHandler()
	e := testEcho()
	id, _ := cats.Create(context.Background(), "Drama")

	c, rec := newRequest(e, http.MethodGet, "")
	setID(c, id)
	if err := h.ListMovies(c); err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty movie list: status = %d, want 404", rec.Code)
	}
}
