package api

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/bookden/bookden-server/internal/auth"
	"github.com/bookden/bookden-server/internal/service"
	"github.com/bookden/bookden-server/internal/store"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// testErrorEnvelope mirrors the error envelope for decoding in tests.
type testErrorEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := store.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	keyBytes := make([]byte, 32)
	_, err = rand.Read(keyBytes)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(hex.EncodeToString(keyBytes), 15*time.Minute)
	require.NoError(t, err)

	locationService := service.NewLocationService(st, logger)
	services := &Services{
		Location: locationService,
		Setup:    service.NewSetupService(st, locationService, logger),
		Picker:   service.NewPickerService(locationService, logger),
		Book:     service.NewBookService(st, locationService, logger),
	}

	s := NewServer(st, services, tokens, "Bookden API Test", logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		tokens: tokens,
	}
}

// authHeader mints a bearer token for the given user.
func (ts *testServer) authHeader(t *testing.T, userID string) string {
	t.Helper()
	token, err := ts.tokens.GenerateAccessToken(userID)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}
