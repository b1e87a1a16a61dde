package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainerrors "github.com/bookden/bookden-server/internal/errors"
	"github.com/bookden/bookden-server/internal/location"
	"github.com/bookden/bookden-server/internal/store"
)

// SetupSummary reports what the setup run did for a user.
type SetupSummary struct {
	SchemaReady            bool `json:"schema_ready"`
	LocationsSeeded        int  `json:"locations_seeded"`         // Nodes created from the preset catalog
	LegacyLocationsCreated int  `json:"legacy_locations_created"` // Nodes created under the legacy root
	BooksMigrated          int  `json:"books_migrated"`           // Books linked to a tree node
}

// SetupService provisions a user's location tree: it seeds the preset
// catalog for first-time users and migrates books that still carry a
// free-text location into nodes under a "Legacy Locations" root.
type SetupService struct {
	store     *store.Store
	locations *LocationService
	logger    *slog.Logger
}

// NewSetupService creates a new setup service.
func NewSetupService(store *store.Store, locations *LocationService, logger *slog.Logger) *SetupService {
	return &SetupService{
		store:     store,
		locations: locations,
		logger:    logger,
	}
}

// Run performs the full setup for a user: schema check, preset seeding, and
// legacy migration. Running it again is a no-op; every step finds before it
// creates.
func (s *SetupService) Run(ctx context.Context, ownerID string) (*SetupSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ready, err := s.store.LocationSchemaReady(ctx)
	if err != nil {
		return nil, fmt.Errorf("check schema: %w", err)
	}
	if !ready {
		return nil, domainerrors.Unavailable("location schema not provisioned")
	}

	summary := &SetupSummary{SchemaReady: true}

	seeded, err := s.seedPresets(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("seed presets: %w", err)
	}
	summary.LocationsSeeded = seeded

	created, migrated, err := s.migrateLegacyBooks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("migrate legacy books: %w", err)
	}
	summary.LegacyLocationsCreated = created
	summary.BooksMigrated = migrated

	s.logger.Info("location setup complete",
		"owner_id", ownerID,
		"locations_seeded", summary.LocationsSeeded,
		"legacy_locations_created", summary.LegacyLocationsCreated,
		"books_migrated", summary.BooksMigrated,
	)

	return summary, nil
}

// seedPresets creates the starter catalog for a user with no locations yet.
// Users who already have any location keep their tree untouched.
func (s *SetupService) seedPresets(ctx context.Context, ownerID string) (int, error) {
	count, err := s.store.CountLocations(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, path := range location.PresetPaths() {
		parentID := ""
		for _, segment := range path.Segments {
			existing, err := s.store.FindChildByName(ctx, ownerID, parentID, segment)
			if err == nil {
				parentID = existing.ID
				continue
			}
			if !domainerrors.Is(err, domainerrors.ErrNotFound) {
				return created, err
			}

			loc, err := s.locations.FindOrCreateChild(ctx, ownerID, parentID, segment, true)
			if err != nil {
				return created, err
			}
			parentID = loc.ID
			created++
		}
	}

	return created, nil
}

// migrateLegacyBooks links books carrying a free-text location to nodes under
// the "Legacy Locations" root. Texts are grouped caselessly so "Attic box"
// and "attic box" land on the same node; the first spelling seen wins as the
// node name. The legacy text stays on the book so nothing is lost.
func (s *SetupService) migrateLegacyBooks(ctx context.Context, ownerID string) (created, migrated int, err error) {
	books, err := s.store.ListUnmigratedBooks(ctx, ownerID)
	if err != nil {
		return 0, 0, err
	}
	if len(books) == 0 {
		return 0, 0, nil
	}

	legacyRoot, err := s.locations.FindOrCreateChild(ctx, ownerID, "", location.LegacyRootName, false)
	if err != nil {
		return 0, 0, fmt.Errorf("ensure legacy root: %w", err)
	}

	// Folded text -> node ID for locations resolved during this run. A key
	// whose node could not be resolved maps to "" so its books are skipped
	// without retrying the failing lookup per book.
	resolved := make(map[string]string)
	skipped := 0

	for _, book := range books {
		text := strings.TrimSpace(book.Location)
		if text == "" {
			continue
		}

		key := location.FoldName(text)
		nodeID, ok := resolved[key]
		if !ok {
			nodeID, err = s.resolveLegacyNode(ctx, ownerID, legacyRoot.ID, text, &created)
			if err != nil {
				s.logger.Warn("skipping legacy location, node could not be resolved",
					"owner_id", ownerID,
					"location", text,
					"error", err,
				)
				nodeID = ""
			}
			resolved[key] = nodeID
		}
		if nodeID == "" {
			skipped++
			continue
		}

		book.LocationID = nodeID
		book.UpdatedAt = time.Now()
		if err := s.store.UpdateBook(ctx, book); err != nil {
			// One broken book must not sink the rest of the batch; its
			// legacy text stays in place for the next run.
			s.logger.Warn("skipping legacy book, link failed",
				"owner_id", ownerID,
				"book_id", book.ID,
				"error", err,
			)
			skipped++
			continue
		}
		migrated++
	}

	if skipped > 0 {
		s.logger.Warn("legacy migration finished with skips",
			"owner_id", ownerID,
			"migrated", migrated,
			"skipped", skipped,
		)
	}

	return created, migrated, nil
}

// resolveLegacyNode finds or creates the node for one legacy location text
// under the legacy root, bumping the created counter on a fresh node.
func (s *SetupService) resolveLegacyNode(ctx context.Context, ownerID, legacyRootID, text string, created *int) (string, error) {
	existing, err := s.store.FindChildByName(ctx, ownerID, legacyRootID, text)
	if err == nil {
		return existing.ID, nil
	}
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return "", err
	}

	node, err := s.locations.FindOrCreateChild(ctx, ownerID, legacyRootID, text, false)
	if err != nil {
		return "", err
	}
	*created++
	return node.ID, nil
}
