package domain

import "time"

// Book represents a posted book review entry.
type Book struct {
	ID        int64
	Title     string
	Caption   string
	ImageURL  string
	Rating    float64
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Owner     *OwnerProfile
}

// BookPage is one window of the paginated book feed.
type BookPage struct {
	Books       []Book
	CurrentPage int
	TotalBooks  int64
	TotalPages  int64
	HasMore     bool
}
