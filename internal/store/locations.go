package store

import (
	"context"
	"database/sql"

	"github.com/bookden/bookden-server/internal/domain"
	"github.com/bookden/bookden-server/internal/errors"
)

// locationColumns is the ordered list of columns selected in location queries.
// Must match the scan order in scanLocation.
const locationColumns = `id, created_at, updated_at, deleted_at, owner_id, parent_id, name, preset`

// scanLocation scans a sql.Row (or sql.Rows via its Scan method) into a domain.Location.
func scanLocation(scanner interface{ Scan(dest ...any) error }) (*domain.Location, error) {
	var l domain.Location

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
		parentID  sql.NullString
		preset    int
	)

	err := scanner.Scan(
		&l.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&l.OwnerID,
		&parentID,
		&l.Name,
		&preset,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	l.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		l.ParentID = parentID.String
	}
	l.Preset = preset != 0

	return &l, nil
}

// CreateLocation inserts a new location node.
// Returns errors.ErrConflict when a live sibling with the same name exists.
func (s *Store) CreateLocation(ctx context.Context, loc *domain.Location) error {
	preset := 0
	if loc.Preset {
		preset = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (
			id, created_at, updated_at, deleted_at, owner_id, parent_id, name, preset
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		loc.ID,
		formatTime(loc.CreatedAt),
		formatTime(loc.UpdatedAt),
		sql.NullString{},
		loc.OwnerID,
		nullString(loc.ParentID),
		loc.Name,
		preset,
	)
	return mapError(err)
}

// GetLocation retrieves a live location by ID, scoped to its owner.
// Returns errors.ErrNotFound if the node does not exist or is deleted.
func (s *Store) GetLocation(ctx context.Context, ownerID, id string) (*domain.Location, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations
		 WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`, id, ownerID)

	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

// UpdateLocation writes a location's name and preset flag and bumps
// updated_at. Returns errors.ErrNotFound if the node does not exist or is
// deleted, errors.ErrConflict when the name collides with a live sibling.
func (s *Store) UpdateLocation(ctx context.Context, loc *domain.Location) error {
	preset := 0
	if loc.Preset {
		preset = 1
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE locations SET name = ?, preset = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		loc.Name,
		preset,
		formatTime(loc.UpdatedAt),
		loc.ID,
		loc.OwnerID,
	)
	if err != nil {
		return mapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// DeleteLocation soft-deletes a location node.
// The delete is refused with errors.ErrConflict while the node still has
// live children or books assigned to it.
func (s *Store) DeleteLocation(ctx context.Context, ownerID, id string, deletedAt string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations
		 WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`, id, ownerID).Scan(&exists)
	if err != nil {
		return mapError(err)
	}
	if exists == 0 {
		return errors.ErrNotFound
	}

	var children int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations
		 WHERE parent_id = ? AND deleted_at IS NULL`, id).Scan(&children)
	if err != nil {
		return mapError(err)
	}
	if children > 0 {
		return errors.Conflict("location still has child locations")
	}

	var books int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE location_id = ?`, id).Scan(&books)
	if err != nil {
		return mapError(err)
	}
	if books > 0 {
		return errors.Conflict("location still has books assigned")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE locations SET deleted_at = ? WHERE id = ?`, deletedAt, id); err != nil {
		return mapError(err)
	}

	return tx.Commit()
}

// ListLocations returns all live locations for an owner, ordered by name.
func (s *Store) ListLocations(ctx context.Context, ownerID string) ([]*domain.Location, error) {
	return s.queryLocations(ctx,
		`SELECT `+locationColumns+` FROM locations
		 WHERE owner_id = ? AND deleted_at IS NULL ORDER BY name`, ownerID)
}

// RootLocations returns an owner's live root nodes, ordered by name.
func (s *Store) RootLocations(ctx context.Context, ownerID string) ([]*domain.Location, error) {
	return s.queryLocations(ctx,
		`SELECT `+locationColumns+` FROM locations
		 WHERE owner_id = ? AND parent_id IS NULL AND deleted_at IS NULL ORDER BY name`, ownerID)
}

// ChildLocations returns the live children of a node, ordered by name.
func (s *Store) ChildLocations(ctx context.Context, ownerID, parentID string) ([]*domain.Location, error) {
	return s.queryLocations(ctx,
		`SELECT `+locationColumns+` FROM locations
		 WHERE owner_id = ? AND parent_id = ? AND deleted_at IS NULL ORDER BY name`, ownerID, parentID)
}

// FindChildByName looks up a live child of parentID by case-insensitive name.
// An empty parentID searches the root level. Returns errors.ErrNotFound when
// no such child exists.
func (s *Store) FindChildByName(ctx context.Context, ownerID, parentID, name string) (*domain.Location, error) {
	var row *sql.Row
	if parentID == "" {
		row = s.db.QueryRowContext(ctx,
			`SELECT `+locationColumns+` FROM locations
			 WHERE owner_id = ? AND parent_id IS NULL AND lower(name) = lower(?) AND deleted_at IS NULL`,
			ownerID, name)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT `+locationColumns+` FROM locations
			 WHERE owner_id = ? AND parent_id = ? AND lower(name) = lower(?) AND deleted_at IS NULL`,
			ownerID, parentID, name)
	}

	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

// CountLocations returns the number of live locations an owner has.
func (s *Store) CountLocations(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations WHERE owner_id = ? AND deleted_at IS NULL`,
		ownerID).Scan(&n)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// LocationSchemaReady reports whether the locations table exists. The setup
// endpoint uses it to distinguish a missing schema from an empty one.
func (s *Store) LocationSchemaReady(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'locations'`).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) queryLocations(ctx context.Context, query string, args ...any) ([]*domain.Location, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}
