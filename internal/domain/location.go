// Package domain contains the core business entities for the Bookden library server.
package domain

import (
	"time"
)

// PathSeparator joins location names into a breadcrumb,
// e.g. "Living Room › Bookshelf › Top Shelf".
const PathSeparator = " › "

// Location is one node in a user's hierarchical storage-location tree.
// Each user owns an independent forest: rooms at the root, furniture and
// shelves below. Nodes are soft-deleted and never reparented.
type Location struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"` // Set marks the node soft-deleted
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`             // User who owns this node and its subtree
	ParentID  string     `json:"parent_id,omitempty"`  // Empty for root (room-level) nodes
	Name      string     `json:"name"`                 // Unique among non-deleted siblings, case-insensitively
	Preset    bool       `json:"preset"`               // Created by the seeder rather than the user
}

// IsRoot returns true if this location has no parent.
func (l *Location) IsRoot() bool {
	return l.ParentID == ""
}

// IsDeleted returns true if the node has been soft-deleted.
func (l *Location) IsDeleted() bool {
	return l.DeletedAt != nil
}

// LocationWithPath is a read-only derived view of a Location produced by the
// hierarchy builder. FullPath and Level are recomputed on every build and
// never persisted.
type LocationWithPath struct {
	Location
	FullPath string              `json:"full_path"` // Ancestor names joined with PathSeparator
	Level    int                 `json:"level"`     // Depth from the root (root = 0)
	Children []*LocationWithPath `json:"children,omitempty"`
}
