package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookden/bookden-server/internal/errors"
)

func TestCreateBookValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.books.CreateBook(ctx, "user-1", "  ", "", "", "")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestBookLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-1", "Dune", "Frank Herbert", "9780441013593", "somewhere")
	require.NoError(t, err)
	assert.Equal(t, "somewhere", book.Location)
	assert.True(t, book.HasLegacyLocation())

	updated, err := env.books.UpdateBook(ctx, "user-1", book.ID, "Dune Messiah", "Frank Herbert", "")
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	// Metadata updates leave the location alone.
	assert.Equal(t, "somewhere", updated.Location)

	books, err := env.books.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, books, 1)

	require.NoError(t, env.books.DeleteBook(ctx, "user-1", book.ID))
	err = env.books.DeleteBook(ctx, "user-1", book.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestAssignLocationRealNode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)
	shelf, err := env.locations.CreateLocation(ctx, "user-1", room.ID, "Bookshelf", false)
	require.NoError(t, err)

	book, err := env.books.CreateBook(ctx, "user-1", "Dune", "", "", "")
	require.NoError(t, err)

	assigned, err := env.books.AssignLocation(ctx, "user-1", book.ID, shelf.ID, "")
	require.NoError(t, err)
	assert.Equal(t, shelf.ID, assigned.LocationID)
	// The text mirrors the node's full path for older readers.
	assert.Equal(t, "Living Room › Bookshelf", assigned.Location)

	at, err := env.books.ListBooksAtLocation(ctx, "user-1", shelf.ID)
	require.NoError(t, err)
	assert.Len(t, at, 1)
}

func TestAssignLocationTempID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-1", "Dune", "", "", "")
	require.NoError(t, err)

	// A temp ID never reaches the location_id column.
	assigned, err := env.books.AssignLocation(ctx, "user-1", book.ID, "tmp-V1StGXR8_Z5jdHi6B-myT", "Living Room Shelf")
	require.NoError(t, err)
	assert.Empty(t, assigned.LocationID)
	assert.Equal(t, "Living Room Shelf", assigned.Location)

	// A temp ID without a name is useless.
	_, err = env.books.AssignLocation(ctx, "user-1", book.ID, "tmp-V1StGXR8_Z5jdHi6B-myT", "")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestAssignLocationTextOnlyAndClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-1", "Dune", "", "", "")
	require.NoError(t, err)

	assigned, err := env.books.AssignLocation(ctx, "user-1", book.ID, "", "on the kitchen table")
	require.NoError(t, err)
	assert.Empty(t, assigned.LocationID)
	assert.Equal(t, "on the kitchen table", assigned.Location)

	cleared, err := env.books.AssignLocation(ctx, "user-1", book.ID, "", "")
	require.NoError(t, err)
	assert.Empty(t, cleared.LocationID)
	assert.Empty(t, cleared.Location)
}

func TestAssignLocationUnknownNode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-1", "Dune", "", "", "")
	require.NoError(t, err)

	_, err = env.books.AssignLocation(ctx, "user-1", book.ID, "loc-missing", "")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
