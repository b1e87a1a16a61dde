package location

import (
	"github.com/bookden/bookden-server/internal/domain"
)

// BuildHierarchy assembles a flat list of locations into a forest of
// LocationWithPath trees. Each node gets a FullPath (ancestor names joined
// with domain.PathSeparator) and a Level (root = 0).
//
// Nodes whose parent is missing from the input are promoted to roots rather
// than dropped, so a partially loaded or corrupted set still renders.
// Roots and children keep the order of the input list; the store's fetch
// operations already sort by name before handing data over.
func BuildHierarchy(locations []*domain.Location) []*domain.LocationWithPath {
	nodes := make(map[string]*domain.LocationWithPath, len(locations))
	for _, loc := range locations {
		nodes[loc.ID] = &domain.LocationWithPath{
			Location: *loc,
			FullPath: loc.Name,
		}
	}

	var roots []*domain.LocationWithPath
	for _, loc := range locations {
		node := nodes[loc.ID]
		if loc.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[loc.ParentID]
		if !ok {
			// Orphan: the parent was deleted or not loaded. Keep the
			// node visible as a root instead of losing its subtree.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	for _, root := range roots {
		annotate(root, "", 0)
	}

	return roots
}

// Flatten walks a forest depth-first and returns every node in path order.
// Useful for rendering the tree as an indented list.
func Flatten(roots []*domain.LocationWithPath) []*domain.LocationWithPath {
	var out []*domain.LocationWithPath
	var walk func(node *domain.LocationWithPath)
	walk = func(node *domain.LocationWithPath) {
		out = append(out, node)
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return out
}

func annotate(node *domain.LocationWithPath, parentPath string, level int) {
	node.Level = level
	if parentPath == "" {
		node.FullPath = node.Name
	} else {
		node.FullPath = parentPath + domain.PathSeparator + node.Name
	}
	for _, child := range node.Children {
		annotate(child, node.FullPath, level+1)
	}
}
