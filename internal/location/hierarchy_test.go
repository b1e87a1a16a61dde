package location

import (
	"testing"

	"github.com/bookden/bookden-server/internal/domain"
)

func makeLocation(id, parentID, name string) *domain.Location {
	return &domain.Location{
		ID:       id,
		OwnerID:  "user-1",
		ParentID: parentID,
		Name:     name,
	}
}

func TestBuildHierarchy(t *testing.T) {
	locations := []*domain.Location{
		makeLocation("loc-1", "", "Living Room"),
		makeLocation("loc-2", "loc-1", "Bookshelf"),
		makeLocation("loc-3", "loc-2", "Top Shelf"),
		makeLocation("loc-4", "loc-2", "Bottom Shelf"),
		makeLocation("loc-5", "", "Bedroom"),
	}

	roots := BuildHierarchy(locations)

	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}

	// Roots keep input order: Living Room before Bedroom.
	if roots[0].Name != "Living Room" || roots[1].Name != "Bedroom" {
		t.Fatalf("root order = [%s, %s], want [Living Room, Bedroom]", roots[0].Name, roots[1].Name)
	}

	living := roots[0]
	if len(living.Children) != 1 {
		t.Fatalf("Living Room has %d children, want 1", len(living.Children))
	}

	shelf := living.Children[0]
	if shelf.FullPath != "Living Room › Bookshelf" {
		t.Errorf("shelf path = %q", shelf.FullPath)
	}
	if shelf.Level != 1 {
		t.Errorf("shelf level = %d, want 1", shelf.Level)
	}

	if len(shelf.Children) != 2 {
		t.Fatalf("Bookshelf has %d children, want 2", len(shelf.Children))
	}

	// Children keep input order: Top Shelf before Bottom Shelf.
	if shelf.Children[1].Name != "Bottom Shelf" {
		t.Errorf("second shelf child = %q, want Bottom Shelf", shelf.Children[1].Name)
	}

	top := shelf.Children[0]
	if top.FullPath != "Living Room › Bookshelf › Top Shelf" {
		t.Errorf("leaf path = %q", top.FullPath)
	}
	if top.Level != 2 {
		t.Errorf("leaf level = %d, want 2", top.Level)
	}
}

func TestBuildHierarchyOrphans(t *testing.T) {
	// loc-2's parent is not in the input; it becomes a root instead of
	// disappearing, and its subtree keeps working.
	locations := []*domain.Location{
		makeLocation("loc-2", "loc-missing", "Bookshelf"),
		makeLocation("loc-3", "loc-2", "Top Shelf"),
	}

	roots := BuildHierarchy(locations)

	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	if roots[0].Name != "Bookshelf" || roots[0].Level != 0 {
		t.Errorf("orphan root = %q level %d", roots[0].Name, roots[0].Level)
	}
	if roots[0].FullPath != "Bookshelf" {
		t.Errorf("orphan path = %q, want Bookshelf", roots[0].FullPath)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].FullPath != "Bookshelf › Top Shelf" {
		t.Errorf("orphan subtree not preserved: %+v", roots[0].Children)
	}
}

func TestBuildHierarchyEmpty(t *testing.T) {
	if roots := BuildHierarchy(nil); len(roots) != 0 {
		t.Errorf("empty input produced %d roots", len(roots))
	}
}

func TestFlatten(t *testing.T) {
	locations := []*domain.Location{
		makeLocation("loc-1", "", "Living Room"),
		makeLocation("loc-2", "loc-1", "Bookshelf"),
		makeLocation("loc-3", "loc-2", "Top Shelf"),
		makeLocation("loc-4", "", "Attic"),
	}

	flat := Flatten(BuildHierarchy(locations))

	if len(flat) != 4 {
		t.Fatalf("got %d nodes, want 4", len(flat))
	}

	// Depth-first in input order: Living Room's chain first, then Attic.
	want := []string{"Living Room", "Bookshelf", "Top Shelf", "Attic"}
	for i, name := range want {
		if flat[i].Name != name {
			t.Errorf("flat[%d] = %q, want %q", i, flat[i].Name, name)
		}
	}
}

func TestFoldName(t *testing.T) {
	if !SameName("Bookshelf", "  bookshelf ") {
		t.Error("case and whitespace variants should match")
	}
	if SameName("Bookshelf", "Bookcase") {
		t.Error("different names should not match")
	}
}

func TestFallbackContainers(t *testing.T) {
	tests := []struct {
		room string
		want string
	}{
		{"Living Room", "Bookshelf"},
		{"Cozy Living Area", "Bookshelf"},
		{"Bedroom", "Nightstand"},
		{"Home Office", "Bookshelf"},
		{"Study", "Bookshelf"},
		{"Garage", "Shelf"},
	}

	for _, tt := range tests {
		got := FallbackContainers(tt.room)
		if len(got) == 0 || got[0] != tt.want {
			t.Errorf("FallbackContainers(%q) = %v, want first %q", tt.room, got, tt.want)
		}
	}
}

func TestFallbackSpots(t *testing.T) {
	if got := FallbackSpots("Bookshelf"); len(got) != 3 || got[0] != "Top Shelf" {
		t.Errorf("FallbackSpots(Bookshelf) = %v", got)
	}
	if got := FallbackSpots("Desk"); len(got) != 2 || got[0] != "Drawer" {
		t.Errorf("FallbackSpots(Desk) = %v", got)
	}
	if got := FallbackSpots("Nightstand"); got != nil {
		t.Errorf("FallbackSpots(Nightstand) = %v, want nil", got)
	}
}

func TestPresetPaths(t *testing.T) {
	paths := PresetPaths()
	if len(paths) != 10 {
		t.Fatalf("got %d preset paths, want 10", len(paths))
	}
	for _, p := range paths {
		if len(p.Segments) < 2 {
			t.Errorf("preset path %v has no depth", p.Segments)
		}
		for _, seg := range p.Segments {
			if seg == "" {
				t.Errorf("preset path %v has empty segment", p.Segments)
			}
		}
	}
}
