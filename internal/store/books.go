package store

import (
	"context"
	"database/sql"

	"github.com/bookden/bookden-server/internal/domain"
	"github.com/bookden/bookden-server/internal/errors"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, owner_id, title, author, isbn, location, location_id`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt  string
		updatedAt  string
		author     sql.NullString
		isbn       sql.NullString
		location   sql.NullString
		locationID sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.OwnerID,
		&b.Title,
		&author,
		&isbn,
		&location,
		&locationID,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if author.Valid {
		b.Author = author.String
	}
	if isbn.Valid {
		b.ISBN = isbn.String
	}
	if location.Valid {
		b.Location = location.String
	}
	if locationID.Valid {
		b.LocationID = locationID.String
	}

	return &b, nil
}

// CreateBook inserts a new book.
// Returns errors.ErrConflict on duplicate ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, owner_id, title, author, isbn, location, location_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.OwnerID,
		book.Title,
		nullString(book.Author),
		nullString(book.ISBN),
		nullString(book.Location),
		nullString(book.LocationID),
	)
	return mapError(err)
}

// GetBook retrieves a book by ID, scoped to its owner.
// Returns errors.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, ownerID, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ? AND owner_id = ?`, id, ownerID)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// UpdateBook updates a book's mutable fields.
// Returns errors.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			updated_at = ?,
			title = ?,
			author = ?,
			isbn = ?,
			location = ?,
			location_id = ?
		WHERE id = ? AND owner_id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		nullString(book.Author),
		nullString(book.ISBN),
		nullString(book.Location),
		nullString(book.LocationID),
		book.ID,
		book.OwnerID,
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

// DeleteBook performs a hard delete on a book.
// Returns errors.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM books WHERE id = ? AND owner_id = ?`, id, ownerID)
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

// ListBooksByOwner returns all books owned by a user, ordered by title.
func (s *Store) ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	return s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books WHERE owner_id = ? ORDER BY title`, ownerID)
}

// ListUnmigratedBooks returns an owner's books that still carry a free-text
// location and have not been linked to a location node.
func (s *Store) ListUnmigratedBooks(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	return s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books
		 WHERE owner_id = ? AND location IS NOT NULL AND location != '' AND location_id IS NULL
		 ORDER BY title`, ownerID)
}

// ListBooksAtLocation returns all of an owner's books assigned to a node.
func (s *Store) ListBooksAtLocation(ctx context.Context, ownerID, locationID string) ([]*domain.Book, error) {
	return s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books
		 WHERE owner_id = ? AND location_id = ? ORDER BY title`, ownerID, locationID)
}

// CountBooksAtLocation returns how many books reference a location node.
func (s *Store) CountBooksAtLocation(ctx context.Context, locationID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE location_id = ?`, locationID).Scan(&n)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (s *Store) queryBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
