package service

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/bookden/bookden-server/internal/store"
)

type testEnv struct {
	store     *store.Store
	dbPath    string
	locations *LocationService
	setup     *SetupService
	picker    *PickerService
	books     *BookService
}

// execSQL runs a raw statement against the test database over a second
// connection, for corrupting state in ways the store API refuses to.
func (env *testEnv) execSQL(t *testing.T, query string, args ...any) {
	t.Helper()
	db, err := sql.Open("sqlite", env.dbPath)
	if err != nil {
		t.Fatalf("open raw connection: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := store.Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	locations := NewLocationService(st, logger)
	return &testEnv{
		store:     st,
		dbPath:    dbPath,
		locations: locations,
		setup:     NewSetupService(st, locations, logger),
		picker:    NewPickerService(locations, logger),
		books:     NewBookService(st, locations, logger),
	}
}
