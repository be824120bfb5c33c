package domain

import "time"

type ID string

// Blog is an owned resource: OwnerID is set at creation and never changes.
type Blog struct {
	ID        ID
	Title     string
	Author    string
	URL       string
	Likes     int
	OwnerID   string
	CreatedAt time.Time
}

// Update carries the mutable fields of a blog. Nil pointers leave the stored
// value untouched.
type Update struct {
	Title  *string
	Author *string
	URL    *string
	Likes  *int
}
