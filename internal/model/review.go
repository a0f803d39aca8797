package model

// Review mirrors the `review` table. UserID is always taken from the
// authenticated caller's token when a review is created, never from client
// input.
type Review struct {
	ID          int64   `json:"id"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	UserID      int64   `json:"userId"`
	MovieID     int64   `json:"movieId"`
}
