package model

import "time"

// Movie mirrors the `movie` table. Rating, AgeRating, Length and
// ReleaseDate are nullable columns and therefore pointers. CategoryID is a
// mandatory foreign key into `category`.
type Movie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Rating      *float64   `json:"rating"`
	AgeRating   *string    `json:"ageRating"`
	Length      *int64     `json:"length"`
	ReleaseDate *time.Time `json:"releaseDate"`
	CategoryID  int64      `json:"categoryId"`
}
