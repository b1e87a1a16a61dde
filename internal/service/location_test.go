package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookden/bookden-server/internal/errors"
)

func TestCreateLocationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.locations.CreateLocation(ctx, "user-1", "", "   ", false)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = env.locations.CreateLocation(ctx, "user-1", "loc-missing", "Bookshelf", false)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestCreateLocationTrimsName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loc, err := env.locations.CreateLocation(ctx, "user-1", "", "  Living Room  ", false)
	require.NoError(t, err)
	assert.Equal(t, "Living Room", loc.Name)
}

func TestLocationPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)
	shelf, err := env.locations.CreateLocation(ctx, "user-1", room.ID, "Bookshelf", false)
	require.NoError(t, err)
	top, err := env.locations.CreateLocation(ctx, "user-1", shelf.ID, "Top Shelf", false)
	require.NoError(t, err)

	path, err := env.locations.LocationPath(ctx, "user-1", top.ID)
	require.NoError(t, err)
	assert.Equal(t, "Living Room › Bookshelf › Top Shelf", path)

	path, err = env.locations.LocationPath(ctx, "user-1", room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Living Room", path)

	// Another user cannot resolve it.
	_, err = env.locations.LocationPath(ctx, "user-2", top.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLocationPathDepthBound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parentID := ""
	var lastID string
	for i := 0; i < 70; i++ {
		loc, err := env.locations.CreateLocation(ctx, "user-1", parentID, "Level "+string(rune('A'+i%26))+string(rune('0'+i/26)), false)
		require.NoError(t, err)
		parentID = loc.ID
		lastID = loc.ID
	}

	// Deeper than the walk bound: the breadcrumb comes back truncated at
	// the top instead of failing.
	path, err := env.locations.LocationPath(ctx, "user-1", lastID)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	segments := strings.Split(path, " › ")
	assert.Len(t, segments, 64)
	// The leaf itself is always the last segment.
	assert.Equal(t, "Level R2", segments[len(segments)-1])
}

func TestLocationPathParentCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)
	b, err := env.locations.CreateLocation(ctx, "user-1", a.ID, "Bookshelf", false)
	require.NoError(t, err)

	// Corrupt the tree into a two-node cycle behind the store's back.
	env.execSQL(t, `UPDATE locations SET parent_id = ? WHERE id = ?`, b.ID, a.ID)

	// The walk terminates and still produces a usable breadcrumb.
	path, err := env.locations.LocationPath(ctx, "user-1", b.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "Bookshelf")
}

func TestFindOrCreateChild(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.locations.FindOrCreateChild(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)

	// Same name, different case: converges on the existing node.
	second, err := env.locations.FindOrCreateChild(ctx, "user-1", "", "living room", false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := env.store.CountLocations(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindSimilarLocations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)
	_, err = env.locations.CreateLocation(ctx, "user-1", room.ID, "Bookshelf", false)
	require.NoError(t, err)
	_, err = env.locations.CreateLocation(ctx, "user-1", "", "Attic", false)
	require.NoError(t, err)

	// A typo still finds the shelf among the room's children, case folded.
	matches, err := env.locations.FindSimilarLocations(ctx, "user-1", room.ID, "bookshelv")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Bookshelf", matches[0].Location.Name)
	assert.Equal(t, "Living Room › Bookshelf", matches[0].Location.FullPath)
	assert.Greater(t, matches[0].Score, 0.4)

	// Scores are ordered best first.
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
	}

	// Matching is scoped to one level: the shelf is not a root.
	matches, err = env.locations.FindSimilarLocations(ctx, "user-1", "", "Bookshelv")
	require.NoError(t, err)
	assert.Empty(t, matches)

	// At the root level the attic is found instead.
	matches, err = env.locations.FindSimilarLocations(ctx, "user-1", "", "Atic")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Attic", matches[0].Location.Name)

	// Too-short queries match nothing.
	matches, err = env.locations.FindSimilarLocations(ctx, "user-1", "", "Bo")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindSimilarLocationsThresholdIsStrict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.locations.CreateLocation(ctx, "user-1", "", "Attic", false)
	require.NoError(t, err)

	// "Atzzz" vs "Attic" scores exactly at the threshold and is excluded.
	matches, err := env.locations.FindSimilarLocations(ctx, "user-1", "", "Atzzz")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRenameLocationService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)
	shelf, err := env.locations.CreateLocation(ctx, "user-1", room.ID, "Bookshelf", false)
	require.NoError(t, err)

	renamed, err := env.locations.RenameLocation(ctx, "user-1", room.ID, "Lounge")
	require.NoError(t, err)
	assert.Equal(t, "Lounge", renamed.Name)

	// The subtree keeps its place; only the path label changed.
	path, err := env.locations.LocationPath(ctx, "user-1", shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lounge › Bookshelf", path)
}

func TestUpdateLocationService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)

	// Toggling the preset flag alone leaves the name untouched.
	preset := true
	updated, err := env.locations.UpdateLocation(ctx, "user-1", room.ID, nil, &preset)
	require.NoError(t, err)
	assert.Equal(t, "Living Room", updated.Name)
	assert.True(t, updated.Preset)

	// Both fields in one call.
	name := "Lounge"
	preset = false
	updated, err = env.locations.UpdateLocation(ctx, "user-1", room.ID, &name, &preset)
	require.NoError(t, err)
	assert.Equal(t, "Lounge", updated.Name)
	assert.False(t, updated.Preset)

	got, err := env.locations.GetLocation(ctx, "user-1", room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lounge", got.Name)
	assert.False(t, got.Preset)

	// A blank name is rejected even as a partial update.
	blank := "   "
	_, err = env.locations.UpdateLocation(ctx, "user-1", room.ID, &blank, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestGetLocationTree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)
	_, err = env.locations.CreateLocation(ctx, "user-1", room.ID, "Bookshelf", false)
	require.NoError(t, err)

	tree, err := env.locations.GetLocationTree(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Living Room", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Living Room › Bookshelf", tree[0].Children[0].FullPath)

	// Other users see an empty forest.
	tree, err = env.locations.GetLocationTree(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, tree)
}
