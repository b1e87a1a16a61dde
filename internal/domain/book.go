package domain

import (
	"time"
)

// Book represents a book in a user's personal collection.
// Location is the legacy free-text storage location kept for backward
// compatibility; LocationID references a Location node once the owner has
// been migrated to the hierarchical system. A book may carry both during
// the transition, and falls back to the text when LocationID is empty.
type Book struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author,omitempty"`
	ISBN       string    `json:"isbn,omitempty"`
	Location   string    `json:"location,omitempty"`    // Legacy free-text location
	LocationID string    `json:"location_id,omitempty"` // Reference into the location tree
}

// HasLegacyLocation reports whether the book still relies on the free-text
// location field, i.e. it has not been migrated to a tree node.
func (b *Book) HasLegacyLocation() bool {
	return b.Location != "" && b.LocationID == ""
}
