// Package service contains the business logic for Bookden: location
// management, preset seeding, legacy migration, the interactive picker,
// and book operations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bookden/bookden-server/internal/domain"
	domainerrors "github.com/bookden/bookden-server/internal/errors"
	"github.com/bookden/bookden-server/internal/id"
	"github.com/bookden/bookden-server/internal/location"
	"github.com/bookden/bookden-server/internal/store"
)

// maxPathDepth bounds the parent walk when resolving a location's full path.
// A correctly built tree never gets close, but a corrupted parent cycle
// must not hang the request.
const maxPathDepth = 64

// LocationMatch pairs an existing location with its similarity score for
// the user's typed input.
type LocationMatch struct {
	Location *domain.LocationWithPath `json:"location"`
	Score    float64                  `json:"score"`
}

// LocationService orchestrates storage-location operations with ownership
// enforcement.
type LocationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewLocationService creates a new location service.
func NewLocationService(store *store.Store, logger *slog.Logger) *LocationService {
	return &LocationService{
		store:  store,
		logger: logger,
	}
}

// CreateLocation creates a new location node for the user. An empty parentID
// creates a root node; otherwise the parent must exist and belong to the
// same user.
func (s *LocationService) CreateLocation(ctx context.Context, ownerID, parentID, name string, preset bool) (*domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("location name cannot be empty")
	}

	if parentID != "" {
		if _, err := s.store.GetLocation(ctx, ownerID, parentID); err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.NotFound("parent location not found")
			}
			return nil, err
		}
	}

	locationID, err := id.Generate("loc")
	if err != nil {
		return nil, fmt.Errorf("generate location ID: %w", err)
	}

	now := time.Now()
	loc := &domain.Location{
		ID:        locationID,
		OwnerID:   ownerID,
		ParentID:  parentID,
		Name:      name,
		Preset:    preset,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateLocation(ctx, loc); err != nil {
		if domainerrors.Is(err, domainerrors.ErrConflict) {
			return nil, domainerrors.Conflictf("location %q already exists at this level", name)
		}
		return nil, fmt.Errorf("create location: %w", err)
	}

	s.logger.Info("location created",
		"location_id", locationID,
		"owner_id", ownerID,
		"parent_id", parentID,
		"name", name,
	)

	return loc, nil
}

// FindOrCreateChild returns the live child of parentID with the given name,
// creating it when absent. A concurrent creation losing the insert race is
// resolved by re-reading, so two callers always converge on the same node.
func (s *LocationService) FindOrCreateChild(ctx context.Context, ownerID, parentID, name string, preset bool) (*domain.Location, error) {
	existing, err := s.store.FindChildByName(ctx, ownerID, parentID, name)
	if err == nil {
		return existing, nil
	}
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	loc, err := s.CreateLocation(ctx, ownerID, parentID, name, preset)
	if err == nil {
		return loc, nil
	}
	if !domainerrors.Is(err, domainerrors.ErrConflict) {
		return nil, err
	}

	// Lost the race; the winner's node is what we wanted anyway.
	return s.store.FindChildByName(ctx, ownerID, parentID, name)
}

// GetLocation retrieves one of the user's locations by ID.
func (s *LocationService) GetLocation(ctx context.Context, ownerID, locationID string) (*domain.Location, error) {
	return s.store.GetLocation(ctx, ownerID, locationID)
}

// UpdateLocation changes a location's name and/or preset flag. The node
// keeps its parent and subtree. Nil fields are left untouched.
func (s *LocationService) UpdateLocation(ctx context.Context, ownerID, locationID string, name *string, preset *bool) (*domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var newName string
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return nil, domainerrors.Validation("location name cannot be empty")
		}
	}

	loc, err := s.store.GetLocation(ctx, ownerID, locationID)
	if err != nil {
		return nil, err
	}

	changed := false
	if name != nil && loc.Name != newName {
		loc.Name = newName
		changed = true
	}
	if preset != nil && loc.Preset != *preset {
		loc.Preset = *preset
		changed = true
	}
	if !changed {
		return loc, nil
	}

	loc.UpdatedAt = time.Now()

	if err := s.store.UpdateLocation(ctx, loc); err != nil {
		if domainerrors.Is(err, domainerrors.ErrConflict) {
			return nil, domainerrors.Conflictf("location %q already exists at this level", loc.Name)
		}
		return nil, fmt.Errorf("update location: %w", err)
	}

	s.logger.Info("location updated",
		"location_id", locationID,
		"owner_id", ownerID,
		"name", loc.Name,
		"preset", loc.Preset,
	)

	return loc, nil
}

// RenameLocation changes a location's name, leaving the preset flag alone.
func (s *LocationService) RenameLocation(ctx context.Context, ownerID, locationID, name string) (*domain.Location, error) {
	return s.UpdateLocation(ctx, ownerID, locationID, &name, nil)
}

// DeleteLocation soft-deletes a location. Nodes with live children or with
// books assigned cannot be deleted.
func (s *LocationService) DeleteLocation(ctx context.Context, ownerID, locationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deletedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.store.DeleteLocation(ctx, ownerID, locationID, deletedAt); err != nil {
		return err
	}

	s.logger.Info("location deleted",
		"location_id", locationID,
		"owner_id", ownerID,
	)

	return nil
}

// GetUserLocations returns all of the user's live locations as a flat list.
func (s *LocationService) GetUserLocations(ctx context.Context, ownerID string) ([]*domain.Location, error) {
	return s.store.ListLocations(ctx, ownerID)
}

// GetLocationTree returns the user's locations assembled into a forest with
// full paths and levels.
func (s *LocationService) GetLocationTree(ctx context.Context, ownerID string) ([]*domain.LocationWithPath, error) {
	locations, err := s.store.ListLocations(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return location.BuildHierarchy(locations), nil
}

// RootLocations returns the user's root-level locations.
func (s *LocationService) RootLocations(ctx context.Context, ownerID string) ([]*domain.Location, error) {
	return s.store.RootLocations(ctx, ownerID)
}

// ChildLocations returns the live children of one of the user's locations.
func (s *LocationService) ChildLocations(ctx context.Context, ownerID, parentID string) ([]*domain.Location, error) {
	if _, err := s.store.GetLocation(ctx, ownerID, parentID); err != nil {
		return nil, err
	}
	return s.store.ChildLocations(ctx, ownerID, parentID)
}

// LocationPath resolves a location's full breadcrumb by walking its parent
// chain, e.g. "Living Room › Bookshelf › Top Shelf". The walk is bounded by
// maxPathDepth to survive a corrupted parent cycle.
func (s *LocationService) LocationPath(ctx context.Context, ownerID, locationID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var segments []string
	currentID := locationID

	for depth := 0; currentID != ""; depth++ {
		if depth >= maxPathDepth {
			// A corrupted parent cycle. Stop walking and hand back what
			// resolved so far; a partial breadcrumb still renders.
			s.logger.Warn("location path walk hit depth bound",
				"location_id", locationID,
				"owner_id", ownerID,
			)
			break
		}

		loc, err := s.store.GetLocation(ctx, ownerID, currentID)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) && depth > 0 {
				// An ancestor was deleted out from under us. Return the
				// partial path rather than failing the whole request.
				break
			}
			return "", err
		}

		segments = append([]string{loc.Name}, segments...)
		currentID = loc.ParentID
	}

	return strings.Join(segments, domain.PathSeparator), nil
}

// FindSimilarLocations scores the siblings at one level of the tree against
// a typed name and returns those above the similarity threshold, best
// first. An empty parentID scores the root level. Queries shorter than the
// minimum length return no matches.
func (s *LocationService) FindSimilarLocations(ctx context.Context, ownerID, parentID, query string) ([]*LocationMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if len(query) < location.MinQueryLength {
		return nil, nil
	}

	tree, err := s.GetLocationTree(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	folded := strings.ToLower(query)

	var matches []*LocationMatch
	for _, node := range location.Flatten(tree) {
		if node.ParentID != parentID {
			continue
		}
		score := location.Similarity(folded, strings.ToLower(node.Name))
		if score > location.SimilarityThreshold {
			matches = append(matches, &LocationMatch{Location: node, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}
