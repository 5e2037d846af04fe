package testutil

import (
	"context"
	"testing"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestGraph returns an empty graph whose commits are persisted to a
// fresh in-memory SQLiteStore.
func NewTestGraph(t *testing.T) (*graph.Store, *store.SQLiteStore) {
	t.Helper()

	s := NewTestStore(t)
	return graph.New(graph.WithPersister(s)), s
}

// Reload reads everything s holds into a new graph, as a restarted process
// would.
func Reload(t *testing.T, s *store.SQLiteStore) *graph.Store {
	t.Helper()

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("loading graph: %v", err)
	}
	g := graph.New(graph.WithPersister(s))
	if err := g.Import(snap); err != nil {
		t.Fatalf("importing graph: %v", err)
	}
	return g
}
