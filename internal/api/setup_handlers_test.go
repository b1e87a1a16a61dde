package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLocationsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.authHeader(t, "user-1")

	// A book with a free-text location, waiting to be migrated.
	resp := ts.api.Post("/api/v1/books", auth, map[string]any{
		"title":    "Dune",
		"location": "attic box",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var book testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &book))

	resp = ts.api.Post("/api/v1/setup-locations", auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var summary testEnvelope[SetupSummaryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.True(t, summary.Data.SchemaReady)
	assert.Greater(t, summary.Data.LocationsSeeded, 0)
	assert.Equal(t, 1, summary.Data.LegacyLocationsCreated)
	assert.Equal(t, 1, summary.Data.BooksMigrated)

	// The book now links to a node under the legacy root.
	resp = ts.api.Get("/api/v1/books/"+book.Data.ID, auth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &book))
	assert.NotEmpty(t, book.Data.LocationID)
	assert.Equal(t, "attic box", book.Data.Location)
}

func TestSetupLocationsRateLimited(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.authHeader(t, "user-1")

	// The burst allows a couple of calls, then the limiter pushes back.
	first := ts.api.Post("/api/v1/setup-locations", auth)
	require.Equal(t, http.StatusOK, first.Code)
	second := ts.api.Post("/api/v1/setup-locations", auth)
	require.Equal(t, http.StatusOK, second.Code)
	third := ts.api.Post("/api/v1/setup-locations", auth)
	assert.Equal(t, http.StatusTooManyRequests, third.Code, third.Body.String())

	// Other users have their own bucket.
	other := ts.api.Post("/api/v1/setup-locations", ts.authHeader(t, "user-2"))
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Data.Status)
	assert.Equal(t, "healthy", health.Data.Components["database"].Status)
}
