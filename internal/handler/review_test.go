package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/auth"
	"github.com/iliyamo/movie-review-api/internal/middleware"
	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/queue"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReviewCreatedEvent
}

func (p *recordingPublisher) ReviewCreated(_ context.Context, ev queue.ReviewCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func asUser(c echo.Context, id int64, name string) {
	middleware.SetClaims(c, &auth.Claims{UserID: id, Username: name, Role: auth.RoleUser})
}

func asAdmin(c echo.Context) {
	middleware.SetClaims(c, &auth.Claims{UserID: 1, Username: "root", Role: auth.RoleAdmin})
}

func seedReview(t *testing.T, reviews *fakeReviewStore, userID int64) int64 {
	t.Helper()
	id, err := reviews.Create(context.Background(), model.Review{
		Rating:      4,
		Description: "Solid.",
		UserID:      userID,
		MovieID:     1,
	})
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}
	return id
}

func TestReviewCreate(t *testing.T) {
	e := testEcho()

	t.Run("owner comes from token", func(t *testing.T) {
		reviews := newFakeReviewStore()
		pub := &recordingPublisher{}
		h := NewReviewHandler(reviews, pub)

		// Body carries a forged userId; the claim must win.
		c, rec := newRequest(e, http.MethodPost, `{"rating":4.5,"description":"Great.","movieId":3,"userId":999}`)
		asUser(c, 42, "alice")
		if err := h.Create(c); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body)
		}
		var got model.Review
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if got.UserID != 42 {
			t.Errorf("UserID = %d, want 42 (from token)", got.UserID)
		}
		if got.MovieID != 3 || got.Rating != 4.5 {
			t.Errorf("created = %+v", got)
		}
		if len(pub.events) != 1 {
			t.Fatalf("published events = %d, want 1", len(pub.events))
		}
		if ev := pub.events[0]; ev.ReviewID != got.ID || ev.Username != "alice" {
			t.Errorf("event = %+v", ev)
		}
	})

	t.Run("no claims", func(t *testing.T) {
		h := NewReviewHandler(newFakeReviewStore(), nil)
		c, rec := newRequest(e, http.MethodPost, `{"rating":4,"description":"Great.","movieId":3}`)
		if err := h.Create(c); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("nil publisher", func(t *testing.T) {
		h := NewReviewHandler(newFakeReviewStore(), nil)
		c, rec := newRequest(e, http.MethodPost, `{"rating":4,"description":"Great.","movieId":3}`)
		asUser(c, 7, "bob")
		if err := h.Create(c); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", rec.Code)
		}
	})
}

func TestReviewUpdateOwnership(t *testing.T) {
	e := testEcho()
	body := `{"rating":1,"description":"Changed my mind."}`

	t.Run("non-owner denied", func(t *testing.T) {
		reviews := newFakeReviewStore()
		h := NewReviewHandler(reviews, nil)
		id := seedReview(t, reviews, 42)

		c, rec := newRequest(e, http.MethodPut, body)
		setID(c, id)
		asUser(c, 43, "mallory")
		if err := h.Update(c); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		got, _ := reviews.GetByID(context.Background(), id)
		if got.Rating != 4 || got.Description != "Solid." {
			t.Errorf("review changed by denied update: %+v", got)
		}
	})

	t.Run("owner allowed", func(t *testing.T) {
		reviews := newFakeReviewStore()
		h := NewReviewHandler(reviews, nil)
		id := seedReview(t, reviews, 42)

		c, rec := newRequest(e, http.MethodPut, body)
		setID(c, id)
		asUser(c, 42, "alice")
		if err := h.Update(c); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204; body %s", rec.Code, rec.Body)
		}
		got, _ := reviews.GetByID(context.Background(), id)
		if got.Rating != 1 || got.Description != "Changed my mind." {
			t.Errorf("stored = %+v", got)
		}
		if got.UserID != 42 || got.MovieID != 1 {
			t.Errorf("ownership fields changed: %+v", got)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		reviews := newFakeReviewStore()
		h := NewReviewHandler(reviews, nil)
		id := seedReview(t, reviews, 42)

		c, rec := newRequest(e, http.MethodPut, body)
		setID(c, id)
		asAdmin(c)
		if err := h.Update(c); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("missing review answers 404 before authorization", func(t *testing.T) {
		h := NewReviewHandler(newFakeReviewStore(), nil)
		c, rec := newRequest(e, http.MethodPut, body)
		setID(c, 99)
		asUser(c, 43, "mallory")
		if err := h.Update(c); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestReviewDelete(t *testing.T) {
	e := testEcho()

	t.Run("owner gets row back", func(t *testing.T) {
		reviews := newFakeReviewStore()
		h := NewReviewHandler(reviews, nil)
		id := seedReview(t, reviews, 42)

		c, rec := newRequest(e, http.MethodDelete, "")
		setID(c, id)
		asUser(c, 42, "alice")
		if err := h.Delete(c); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
		}
		var got model.Review
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if got.ID != id || got.Description != "Solid." {
			t.Errorf("body = %+v", got)
		}
		if _, err := reviews.GetByID(context.Background(), id); err == nil {
			t.Error("review still present after delete")
		}
	})

	t.Run("non-owner denied", func(t *testing.T) {
		reviews := newFakeReviewStore()
		h := NewReviewHandler(reviews, nil)
		id := seedReview(t, reviews, 42)

		c, rec := newRequest(e, http.MethodDelete, "")
		setID(c, id)
		asUser(c, 43, "mallory")
		if err := h.Delete(c); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if _, err := reviews.GetByID(context.Background(), id); err != nil {
			t.Error("review deleted by denied caller")
		}
	})
}

func TestReviewListEmpty(t *testing.T) {
	h := NewReviewHandler(newFakeReviewStore(), nil)
	e := testEcho()

	c, rec := newRequest(e, http.MethodGet, "")
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty list: status = %d, want 404", rec.Code)
	}
}
