package model

// Category mirrors the `category` table.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
