package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookden/bookden-server/internal/domain"
	domainerrors "github.com/bookden/bookden-server/internal/errors"
	"github.com/bookden/bookden-server/internal/id"
	"github.com/bookden/bookden-server/internal/location"
)

// PickerStep identifies how deep the interactive picker currently is.
type PickerStep string

const (
	StepRoom      PickerStep = "room"      // Choosing a root-level room
	StepContainer PickerStep = "container" // Choosing furniture within a room
	StepSpot      PickerStep = "spot"      // Choosing a shelf or position
)

// PickerOption is one choice presented at a picker step. Suggested options
// come from the fallback catalogs and do not exist in the tree yet; their
// IDs carry the temp prefix and are materialized on confirm.
type PickerOption struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Suggested bool   `json:"suggested"`
}

// PickerOptions is the full state of one picker step.
type PickerOptions struct {
	Step       PickerStep      `json:"step"`
	ParentID   string          `json:"parent_id,omitempty"`
	Path       string          `json:"path,omitempty"` // Breadcrumb of the choices so far
	Options    []*PickerOption `json:"options"`
	CanUseHere bool            `json:"can_use_here"` // The current node can be chosen as-is
	Degraded   bool            `json:"degraded"`     // Store was unreachable; options are suggestions only
}

// PickedLocation is the outcome of a confirmed picker choice.
type PickedLocation struct {
	Location *domain.Location `json:"location"`
	FullPath string           `json:"full_path"`
	Created  bool             `json:"created"` // The node was materialized by this confirm
}

// PickerService drives the step-wise location picker: rooms, then
// containers, then spots. Every step offers the user's real nodes when they
// exist and falls back to suggested defaults when they don't, so the picker
// always has something to show.
type PickerService struct {
	locations *LocationService
	logger    *slog.Logger
}

// NewPickerService creates a new picker service.
func NewPickerService(locations *LocationService, logger *slog.Logger) *PickerService {
	return &PickerService{
		locations: locations,
		logger:    logger,
	}
}

// Options returns the choices for the next picker step. An empty parentID
// starts at the room step; otherwise the children of the given node are
// offered and the step is derived from the node's depth. When the store is
// unreachable the options degrade to the fallback catalogs instead of
// failing, so the picker always has something to show.
func (s *PickerService) Options(ctx context.Context, ownerID, parentID string) (*PickerOptions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if parentID == "" {
		return s.rootOptions(ctx, ownerID)
	}

	// An unmaterialized suggestion as parent: nothing to read from the
	// store, offer the generic container catalog.
	if id.IsTemp(parentID) {
		return s.degradedOptions(parentID, StepContainer, "")
	}

	parent, err := s.locations.GetLocation(ctx, ownerID, parentID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrUnavailable) {
			return s.degradedOptions(parentID, StepContainer, "")
		}
		return nil, err
	}

	path, err := s.locations.LocationPath(ctx, ownerID, parentID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrUnavailable) {
			return s.degradedOptions(parentID, StepContainer, parent.Name)
		}
		return nil, err
	}

	step := StepContainer
	if strings.Count(path, domain.PathSeparator) >= 1 {
		step = StepSpot
	}

	opts := &PickerOptions{
		Step:       step,
		ParentID:   parentID,
		Path:       path,
		CanUseHere: true,
	}

	children, err := s.locations.ChildLocations(ctx, ownerID, parentID)
	if err != nil {
		if !domainerrors.Is(err, domainerrors.ErrUnavailable) {
			return nil, err
		}
		s.logger.Warn("picker degraded, serving fallback options",
			"owner_id", ownerID,
			"parent_id", parentID,
			"error", err,
		)
		opts.Degraded = true
	}

	if len(children) > 0 {
		for _, child := range children {
			opts.Options = append(opts.Options, &PickerOption{ID: child.ID, Name: child.Name})
		}
		return opts, nil
	}

	var fallbacks []string
	if step == StepContainer {
		fallbacks = location.FallbackContainers(parent.Name)
	} else {
		fallbacks = location.FallbackSpots(parent.Name)
	}
	opts.Options, err = suggestedOptions(fallbacks)
	if err != nil {
		return nil, err
	}

	return opts, nil
}

// degradedOptions serves a container step from the fallback catalog alone,
// for when the parent cannot be read from the store.
func (s *PickerService) degradedOptions(parentID string, step PickerStep, parentName string) (*PickerOptions, error) {
	var fallbacks []string
	if step == StepSpot {
		fallbacks = location.FallbackSpots(parentName)
	} else {
		fallbacks = location.FallbackContainers(parentName)
	}

	options, err := suggestedOptions(fallbacks)
	if err != nil {
		return nil, err
	}

	return &PickerOptions{
		Step:     step,
		ParentID: parentID,
		Options:  options,
		Degraded: true,
	}, nil
}

// Confirm resolves one picker choice into a real location node. A choice
// with a real node ID is verified and returned; a suggested (temp-ID) or
// free-typed choice is found-or-created under the parent. When the store
// cannot materialize the node, a temporary location is handed back instead
// so the flow completes; the book keeps the path as text until setup
// recovers it.
func (s *PickerService) Confirm(ctx context.Context, ownerID, parentID, optionID, name string) (*PickedLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)

	if optionID != "" && !id.IsTemp(optionID) {
		loc, err := s.locations.GetLocation(ctx, ownerID, optionID)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrUnavailable) && name != "" {
				return s.temporaryPick(ctx, ownerID, parentID, name)
			}
			return nil, err
		}
		return s.picked(ctx, ownerID, loc, false)
	}

	if name == "" {
		return nil, domainerrors.Validation("location name cannot be empty")
	}

	// The parent itself was never materialized; nothing to attach to yet.
	if id.IsTemp(parentID) {
		return s.temporaryPick(ctx, ownerID, parentID, name)
	}

	existing, err := s.locations.store.FindChildByName(ctx, ownerID, parentID, name)
	if err == nil {
		return s.picked(ctx, ownerID, existing, false)
	}
	if domainerrors.Is(err, domainerrors.ErrUnavailable) {
		return s.temporaryPick(ctx, ownerID, parentID, name)
	}
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	loc, err := s.locations.FindOrCreateChild(ctx, ownerID, parentID, name, false)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrUnavailable) || domainerrors.Is(err, domainerrors.ErrConflict) {
			return s.temporaryPick(ctx, ownerID, parentID, name)
		}
		return nil, err
	}

	s.logger.Info("picker materialized location",
		"location_id", loc.ID,
		"owner_id", ownerID,
		"parent_id", parentID,
		"name", name,
	)

	return s.picked(ctx, ownerID, loc, true)
}

// temporaryPick builds a client-only location with a temp ID when the store
// cannot serve or materialize the chosen node. The full path is assembled
// from whatever part of the parent chain still resolves.
func (s *PickerService) temporaryPick(ctx context.Context, ownerID, parentID, name string) (*PickedLocation, error) {
	tempID, err := id.NewTemp()
	if err != nil {
		return nil, fmt.Errorf("generate temp ID: %w", err)
	}

	fullPath := name
	if parentID != "" && !id.IsTemp(parentID) {
		if parentPath, err := s.locations.LocationPath(ctx, ownerID, parentID); err == nil && parentPath != "" {
			fullPath = parentPath + domain.PathSeparator + name
		}
	}

	s.logger.Warn("picker issued temporary location",
		"owner_id", ownerID,
		"parent_id", parentID,
		"name", name,
	)

	return &PickedLocation{
		Location: &domain.Location{
			ID:       tempID,
			OwnerID:  ownerID,
			ParentID: parentID,
			Name:     name,
		},
		FullPath: fullPath,
		Created:  false,
	}, nil
}

// Resolve returns a location together with its full breadcrumb, for
// displaying a book's stored position.
func (s *PickerService) Resolve(ctx context.Context, ownerID, locationID string) (*PickedLocation, error) {
	loc, err := s.locations.GetLocation(ctx, ownerID, locationID)
	if err != nil {
		return nil, err
	}
	return s.picked(ctx, ownerID, loc, false)
}

// Suggest scores the siblings at the current picker step against typed
// input, for the free-text entry field. An empty parentID scores the roots.
func (s *PickerService) Suggest(ctx context.Context, ownerID, parentID, query string) ([]*LocationMatch, error) {
	return s.locations.FindSimilarLocations(ctx, ownerID, parentID, query)
}

func (s *PickerService) rootOptions(ctx context.Context, ownerID string) (*PickerOptions, error) {
	opts := &PickerOptions{Step: StepRoom}

	roots, err := s.locations.RootLocations(ctx, ownerID)
	if err != nil {
		if !domainerrors.Is(err, domainerrors.ErrUnavailable) {
			return nil, err
		}
		s.logger.Warn("picker degraded, serving fallback rooms",
			"owner_id", ownerID,
			"error", err,
		)
		opts.Degraded = true
	}

	if len(roots) > 0 {
		for _, root := range roots {
			opts.Options = append(opts.Options, &PickerOption{ID: root.ID, Name: root.Name})
		}
		return opts, nil
	}

	opts.Options, err = suggestedOptions(location.FallbackRooms())
	if err != nil {
		return nil, err
	}
	return opts, nil
}

func (s *PickerService) picked(ctx context.Context, ownerID string, loc *domain.Location, created bool) (*PickedLocation, error) {
	path, err := s.locations.LocationPath(ctx, ownerID, loc.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	return &PickedLocation{Location: loc, FullPath: path, Created: created}, nil
}

func suggestedOptions(names []string) ([]*PickerOption, error) {
	var opts []*PickerOption
	for _, name := range names {
		tempID, err := id.NewTemp()
		if err != nil {
			return nil, fmt.Errorf("generate temp ID: %w", err)
		}
		opts = append(opts, &PickerOption{
			ID:        tempID,
			Name:      name,
			Suggested: true,
		})
	}
	return opts, nil
}
