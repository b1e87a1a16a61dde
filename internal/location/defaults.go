package location

import (
	"strings"

	"golang.org/x/text/cases"
)

// PresetPath is one seedable path from a root room down to a shelf or
// container. Segments are ordered root-first.
type PresetPath struct {
	Segments []string
}

// PresetPaths is the starter catalog the seeder creates for users who have
// no locations yet. Paths share prefixes, so the seeder finds-or-creates
// each segment instead of inserting blindly.
func PresetPaths() []PresetPath {
	return []PresetPath{
		{Segments: []string{"Living Room", "Bookshelf", "Top Shelf"}},
		{Segments: []string{"Living Room", "Bookshelf", "Middle Shelf"}},
		{Segments: []string{"Living Room", "Bookshelf", "Bottom Shelf"}},
		{Segments: []string{"Bedroom", "Nightstand"}},
		{Segments: []string{"Home Office", "Bookshelf"}},
		{Segments: []string{"Study", "Floor-to-Ceiling Shelf"}},
		{Segments: []string{"Basement", "Box A"}},
		{Segments: []string{"Basement", "Box B"}},
		{Segments: []string{"Attic", "Crate 1"}},
		{Segments: []string{"Kitchen", "Cookbook Shelf"}},
	}
}

// FallbackRooms are offered by the picker when the user has no root
// locations at all.
func FallbackRooms() []string {
	return []string{"Living Room", "Bedroom", "Home Office", "Study"}
}

// FallbackContainers suggests typical furniture for a room name when the
// room has no children yet. Matching is a keyword scan, so "Cozy Living
// Room" still gets the living-room set.
func FallbackContainers(roomName string) []string {
	name := strings.ToLower(roomName)
	switch {
	case strings.Contains(name, "living"):
		return []string{"Bookshelf", "Coffee Table", "Side Table"}
	case strings.Contains(name, "bedroom"):
		return []string{"Nightstand", "Dresser", "Bookshelf"}
	case strings.Contains(name, "office"), strings.Contains(name, "study"):
		return []string{"Bookshelf", "Desk", "Filing Cabinet"}
	default:
		return []string{"Shelf", "Table"}
	}
}

// FallbackSpots suggests typical positions within a container when the
// container has no children yet.
func FallbackSpots(containerName string) []string {
	name := strings.ToLower(containerName)
	switch {
	case strings.Contains(name, "bookshelf"), strings.Contains(name, "shelf"):
		return []string{"Top Shelf", "Middle Shelf", "Bottom Shelf"}
	case strings.Contains(name, "desk"):
		return []string{"Drawer", "Desktop"}
	case strings.Contains(name, "table"):
		return []string{"On Top", "Underneath"}
	default:
		return nil
	}
}

// LegacyRootName is the root node that adopts migrated free-text locations.
const LegacyRootName = "Legacy Locations"

var nameFolder = cases.Fold()

// FoldName normalizes a location name for caseless comparison. Sibling
// uniqueness and find-or-create both go through this, so "bookshelf" and
// "Bookshelf" collide.
func FoldName(name string) string {
	return nameFolder.String(strings.TrimSpace(name))
}

// SameName reports whether two location names are equal after folding.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}
