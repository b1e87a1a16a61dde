package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bookden/bookden-server/internal/domain"
	domainerrors "github.com/bookden/bookden-server/internal/errors"
	"github.com/bookden/bookden-server/internal/id"
	"github.com/bookden/bookden-server/internal/store"
)

// BookService orchestrates book operations and keeps book-location links
// consistent with the location tree.
type BookService struct {
	store     *store.Store
	locations *LocationService
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, locations *LocationService, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		locations: locations,
		logger:    logger,
	}
}

// CreateBook adds a book to the user's collection. The location is free text
// at creation time; linking to a tree node happens through AssignLocation.
func (s *BookService) CreateBook(ctx context.Context, ownerID, title, author, isbn, locationText string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainerrors.Validation("book title cannot be empty")
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book := &domain.Book{
		ID:        bookID,
		OwnerID:   ownerID,
		Title:     title,
		Author:    strings.TrimSpace(author),
		ISBN:      strings.TrimSpace(isbn),
		Location:  strings.TrimSpace(locationText),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", bookID,
		"owner_id", ownerID,
		"title", title,
	)

	return book, nil
}

// GetBook retrieves one of the user's books by ID.
func (s *BookService) GetBook(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, ownerID, bookID)
}

// UpdateBook updates a book's metadata. Location links are managed through
// AssignLocation and left untouched here.
func (s *BookService) UpdateBook(ctx context.Context, ownerID, bookID, title, author, isbn string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainerrors.Validation("book title cannot be empty")
	}

	book, err := s.store.GetBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}

	book.Title = title
	book.Author = strings.TrimSpace(author)
	book.ISBN = strings.TrimSpace(isbn)
	book.UpdatedAt = time.Now()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book updated",
		"book_id", bookID,
		"owner_id", ownerID,
	)

	return book, nil
}

// DeleteBook removes a book from the user's collection.
func (s *BookService) DeleteBook(ctx context.Context, ownerID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, ownerID, bookID); err != nil {
		return err
	}

	s.logger.Info("book deleted",
		"book_id", bookID,
		"owner_id", ownerID,
	)

	return nil
}

// ListBooks returns all of the user's books.
func (s *BookService) ListBooks(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	return s.store.ListBooksByOwner(ctx, ownerID)
}

// ListBooksAtLocation returns the user's books assigned to a tree node.
func (s *BookService) ListBooksAtLocation(ctx context.Context, ownerID, locationID string) ([]*domain.Book, error) {
	if _, err := s.locations.GetLocation(ctx, ownerID, locationID); err != nil {
		return nil, err
	}
	return s.store.ListBooksAtLocation(ctx, ownerID, locationID)
}

// AssignLocation sets where a book lives. Three cases:
//
//   - A real location ID links the book to that node and records the node's
//     full path as the text, so older readers keep working.
//   - A temp ID (a picker suggestion that was never persisted) must not
//     reach the location_id column; the given text is stored alone.
//   - Empty ID and empty text clear the book's location entirely.
func (s *BookService) AssignLocation(ctx context.Context, ownerID, bookID, locationID, locationText string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}

	locationText = strings.TrimSpace(locationText)

	switch {
	case locationID == "" && locationText == "":
		book.LocationID = ""
		book.Location = ""

	case id.IsTemp(locationID):
		if locationText == "" {
			return nil, domainerrors.Validation("a location name is required with a temporary location")
		}
		book.LocationID = ""
		book.Location = locationText

	case locationID != "":
		if _, err := s.locations.GetLocation(ctx, ownerID, locationID); err != nil {
			return nil, err
		}
		path, err := s.locations.LocationPath(ctx, ownerID, locationID)
		if err != nil {
			return nil, err
		}
		book.LocationID = locationID
		book.Location = path

	default:
		// Text only: keep the book unlinked but remember where it is.
		book.LocationID = ""
		book.Location = locationText
	}

	book.UpdatedAt = time.Now()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("assign location: %w", err)
	}

	s.logger.Info("book location assigned",
		"book_id", bookID,
		"owner_id", ownerID,
		"location_id", book.LocationID,
	)

	return book, nil
}
