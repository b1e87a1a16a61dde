package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookden/bookden-server/internal/id"
)

func TestPickerRootFallbacks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A brand-new user still gets rooms to choose from.
	opts, err := env.picker.Options(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, StepRoom, opts.Step)
	assert.False(t, opts.CanUseHere)
	require.Len(t, opts.Options, 4)
	for _, opt := range opts.Options {
		assert.True(t, opt.Suggested)
		assert.True(t, id.IsTemp(opt.ID), "fallback option %s should carry a temp ID", opt.Name)
	}
	assert.Equal(t, "Living Room", opts.Options[0].Name)
}

func TestPickerRealRoots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)

	opts, err := env.picker.Options(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, opts.Options, 1)
	assert.Equal(t, room.ID, opts.Options[0].ID)
	assert.False(t, opts.Options[0].Suggested)
}

func TestPickerStepProgression(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)

	// Inside an empty room: container step with room-appropriate fallbacks.
	opts, err := env.picker.Options(ctx, "user-1", room.ID)
	require.NoError(t, err)
	assert.Equal(t, StepContainer, opts.Step)
	assert.Equal(t, "Living Room", opts.Path)
	assert.True(t, opts.CanUseHere)
	require.Len(t, opts.Options, 3)
	assert.Equal(t, "Bookshelf", opts.Options[0].Name)
	assert.True(t, opts.Options[0].Suggested)

	shelf, err := env.locations.CreateLocation(ctx, "user-1", room.ID, "Bookshelf", false)
	require.NoError(t, err)

	// The real child replaces the fallbacks.
	opts, err = env.picker.Options(ctx, "user-1", room.ID)
	require.NoError(t, err)
	require.Len(t, opts.Options, 1)
	assert.Equal(t, shelf.ID, opts.Options[0].ID)

	// Inside the shelf: spot step with shelf-level fallbacks.
	opts, err = env.picker.Options(ctx, "user-1", shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSpot, opts.Step)
	assert.Equal(t, "Living Room › Bookshelf", opts.Path)
	require.Len(t, opts.Options, 3)
	assert.Equal(t, "Top Shelf", opts.Options[0].Name)
}

func TestPickerConfirmMaterializesSuggestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)

	opts, err := env.picker.Options(ctx, "user-1", room.ID)
	require.NoError(t, err)
	suggestion := opts.Options[0]

	picked, err := env.picker.Confirm(ctx, "user-1", room.ID, suggestion.ID, suggestion.Name)
	require.NoError(t, err)
	assert.True(t, picked.Created)
	assert.False(t, id.IsTemp(picked.Location.ID))
	assert.Equal(t, "Bookshelf", picked.Location.Name)
	assert.Equal(t, "Living Room › Bookshelf", picked.FullPath)

	// Confirming the same suggestion again converges on the same node.
	again, err := env.picker.Confirm(ctx, "user-1", room.ID, suggestion.ID, suggestion.Name)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, picked.Location.ID, again.Location.ID)
}

func TestPickerConfirmRealNode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)

	picked, err := env.picker.Confirm(ctx, "user-1", "", room.ID, "")
	require.NoError(t, err)
	assert.False(t, picked.Created)
	assert.Equal(t, room.ID, picked.Location.ID)
	assert.Equal(t, "Living Room", picked.FullPath)
}

func TestPickerConfirmFreeText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// No option chosen, just a typed name: created at the root.
	picked, err := env.picker.Confirm(ctx, "user-1", "", "", "Reading Nook")
	require.NoError(t, err)
	assert.True(t, picked.Created)
	assert.Equal(t, "Reading Nook", picked.Location.Name)
	assert.True(t, picked.Location.IsRoot())

	// Empty name with no option is rejected.
	_, err = env.picker.Confirm(ctx, "user-1", "", "", "  ")
	assert.Error(t, err)
}

func TestPickerOptionsDegradedStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)

	// Simulate a half-provisioned database.
	env.execSQL(t, `DROP TABLE locations`)

	// The root step still offers the fallback rooms instead of failing.
	opts, err := env.picker.Options(ctx, "user-1", "")
	require.NoError(t, err)
	assert.True(t, opts.Degraded)
	assert.Equal(t, StepRoom, opts.Step)
	require.Len(t, opts.Options, 4)
	for _, opt := range opts.Options {
		assert.True(t, opt.Suggested)
		assert.True(t, id.IsTemp(opt.ID))
	}

	// Descending into a node works the same way.
	opts, err = env.picker.Options(ctx, "user-1", room.ID)
	require.NoError(t, err)
	assert.True(t, opts.Degraded)
	require.NotEmpty(t, opts.Options)
	for _, opt := range opts.Options {
		assert.True(t, opt.Suggested)
	}
}

func TestPickerOptionsTempParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tempID, err := id.NewTemp()
	require.NoError(t, err)

	// A suggestion that was never materialized still yields a next step.
	opts, err := env.picker.Options(ctx, "user-1", tempID)
	require.NoError(t, err)
	assert.True(t, opts.Degraded)
	assert.Equal(t, StepContainer, opts.Step)
	require.NotEmpty(t, opts.Options)
	for _, opt := range opts.Options {
		assert.True(t, opt.Suggested)
	}
}

func TestPickerConfirmDegradedStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Living Room", false)
	require.NoError(t, err)

	env.execSQL(t, `DROP TABLE locations`)

	// The flow still completes with a temporary node the client can keep.
	picked, err := env.picker.Confirm(ctx, "user-1", room.ID, "", "Bookshelf")
	require.NoError(t, err)
	assert.False(t, picked.Created)
	assert.True(t, id.IsTemp(picked.Location.ID))
	assert.Equal(t, "Bookshelf", picked.Location.Name)
	assert.Equal(t, "Bookshelf", picked.FullPath)
}

func TestPickerConfirmTempParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tempParent, err := id.NewTemp()
	require.NoError(t, err)

	// Confirming under an unmaterialized parent yields another temp node.
	picked, err := env.picker.Confirm(ctx, "user-1", tempParent, "", "Top Shelf")
	require.NoError(t, err)
	assert.False(t, picked.Created)
	assert.True(t, id.IsTemp(picked.Location.ID))
	assert.Equal(t, "Top Shelf", picked.FullPath)
}

func TestPickerResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.locations.CreateLocation(ctx, "user-1", "", "Study", false)
	require.NoError(t, err)
	desk, err := env.locations.CreateLocation(ctx, "user-1", room.ID, "Desk", false)
	require.NoError(t, err)

	picked, err := env.picker.Resolve(ctx, "user-1", desk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Study › Desk", picked.FullPath)
}
