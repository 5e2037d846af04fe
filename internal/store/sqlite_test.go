package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/snapshot"
	"github.com/nhle/daybook/internal/syncer"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type nodeView struct {
	ID    string
	Kind  model.Kind
	Attrs graph.Attributes
}

func nodesOf(snap graph.Snapshot) []nodeView {
	out := make([]nodeView, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		out = append(out, nodeView{ID: n.ID, Kind: n.Kind, Attrs: n.Attrs})
	}
	return out
}

// fixture fills g with one of everything and returns the checklist id.
func fixture(t *testing.T, g *graph.Store) string {
	t.Helper()
	ctx := context.Background()
	var checklistID string

	require.NoError(t, g.Update(ctx, func(tx *graph.Tx) error {
		checklist, err := model.NewChecklist(model.NewID(), day, "rainy")
		require.NoError(t, err)
		checklistID = checklist.ID
		if _, err := syncer.MaterializeTx(tx, checklist); err != nil {
			return err
		}

		orderID, err := tx.EnsureSingleton(model.KindGroupOrder)
		if err != nil {
			return err
		}
		group, err := model.NewItemGroup(model.NewID(), "Health", "", model.NewColor(0.25, 0.5, 1))
		require.NoError(t, err)
		if _, err := syncer.MaterializeTx(tx, group); err != nil {
			return err
		}
		if err := tx.Attach(orderID, group.ID(), graph.RelOrderGroups, -1); err != nil {
			return err
		}

		for i, title := range []string{"run", "stretch", "read"} {
			item, err := model.NewChecklistItem(model.NewID(), title, day)
			require.NoError(t, err)
			if i == 0 {
				item = item.WithNotification(day.Add(7 * time.Hour)).WithCompleted(true)
			}
			if _, err := syncer.MaterializeTx(tx, item); err != nil {
				return err
			}
			if err := tx.Attach(checklist.ID, item.ID(), graph.RelChecklistItems, -1); err != nil {
				return err
			}
			if i < 2 {
				if err := tx.Attach(group.ID(), item.ID(), graph.RelGroupItems, -1); err != nil {
					return err
				}
			}
			sub, err := model.NewSubItem(model.NewID(), title+" warmup")
			require.NoError(t, err)
			if _, err := syncer.MaterializeTx(tx, sub); err != nil {
				return err
			}
			if err := tx.Attach(item.ID(), sub.ID(), graph.RelItemSubItems, -1); err != nil {
				return err
			}
		}

		history := model.ChatHistory{ID: model.NewID(), IsMainHistory: true}
		if _, err := syncer.MaterializeTx(tx, history); err != nil {
			return err
		}
		msg, err := model.NewChatMessage(model.NewID(), model.RoleUser, "how did I do?", day.Add(20*time.Hour))
		require.NoError(t, err)
		if _, err := syncer.MaterializeTx(tx, msg); err != nil {
			return err
		}
		return tx.Attach(history.ID, msg.ID, graph.RelHistoryMessages, -1)
	}))

	_, err := snapshot.NewEngine(g).Create(ctx, checklistID, snapshot.Analysis{Summary: "good day"})
	require.NoError(t, err)
	return checklistID
}

func TestMigrationsApplied(t *testing.T) {
	s := newTestStore(t, ":memory:")
	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestPersistLoadRoundTrip(t *testing.T) {
	s := newTestStore(t, ":memory:")
	g := graph.New(graph.WithPersister(s))
	fixture(t, g)
	want := g.Snapshot()

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nodesOf(want), nodesOf(got))

	restored := graph.New()
	require.NoError(t, restored.Import(got))
	assert.Equal(t, nodesOf(want), nodesOf(restored.Snapshot()))
	assert.Equal(t, want.Edges, restored.Snapshot().Edges)
}

func TestPersistMirrorsDeletes(t *testing.T) {
	s := newTestStore(t, ":memory:")
	g := graph.New(graph.WithPersister(s))
	checklistID := fixture(t, g)
	ctx := context.Background()

	groups, err := syncer.New(g).Groups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.NoError(t, g.Delete(ctx, groups[0].ID()))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.NodesOf(model.KindItemGroup))
	assert.Len(t, loaded.NodesOf(model.KindChecklistItem), 3)
	assert.Empty(t, loaded.Owners(graph.RelGroupItems))

	require.NoError(t, g.Delete(ctx, checklistID))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.NodesOf(model.KindChecklistItem))
	assert.Empty(t, loaded.NodesOf(model.KindSubItem))
	assert.Len(t, loaded.NodesOf(model.KindReport), 1)
	assert.Len(t, loaded.NodesOf(model.KindSnapshotItem), 3)
	assert.Len(t, loaded.NodesOf(model.KindSnapshotSubItem), 3)
}

func TestReopenKeepsGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daybook.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	g := graph.New(graph.WithPersister(first))
	fixture(t, g)
	want := g.Snapshot()
	require.NoError(t, first.Close())

	second := newTestStore(t, path)
	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, nodesOf(want), nodesOf(got))

	version, err := second.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestFailedPersistAbortsCommit(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	g := graph.New(graph.WithPersister(s))
	require.NoError(t, s.Close())

	_, err = syncer.New(g).Materialize(context.Background(), model.Checklist{ID: model.NewID(), Date: day})
	require.Error(t, err)
	assert.Empty(t, g.Snapshot().Nodes)
}

func TestLoadLegacyRows(t *testing.T) {
	s := newTestStore(t, ":memory:")
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO sub_items (id, title) VALUES (NULL, 'old entry')`)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `INSERT INTO item_groups (id) VALUES ('bare')`)
	require.NoError(t, err)

	snap, err := s.Load(ctx)
	require.NoError(t, err)

	subs := snap.NodesOf(model.KindSubItem)
	require.Len(t, subs, 1)
	assert.NotEmpty(t, subs[0].ID)

	g := graph.New()
	require.NoError(t, g.Import(snap))
	sync := syncer.New(g)

	sub, err := syncer.ExtractAs[model.SubItem](ctx, sync, subs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "old entry", sub.Title())
	assert.False(t, sub.IsCompleted())

	group, err := syncer.ExtractAs[model.ItemGroup](ctx, sync, "bare")
	require.NoError(t, err)
	assert.Equal(t, "", group.Title())
	assert.False(t, group.Color().IsSet())
}

func TestForeignKeysEnforced(t *testing.T) {
	s := newTestStore(t, ":memory:")
	_, err := s.db.Exec(`INSERT INTO sub_items (id, checklist_item_id) VALUES ('x', 'missing')`)
	assert.Error(t, err)
}
