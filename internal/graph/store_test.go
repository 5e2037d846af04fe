package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/daybook/internal/model"
)

var day = time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store     *Store
	checklist string
	items     []string
	subItems  []string
	group     string
}

// newFixture builds a checklist with two items, one sub-item under each, and
// a group holding the first item.
func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{store: New()}
	err := f.store.Update(context.Background(), func(tx *Tx) error {
		var err error
		f.checklist, err = tx.Insert(model.KindChecklist, Attributes{AttrKeyDate: day})
		require.NoError(t, err)
		f.group, err = tx.Insert(model.KindItemGroup, Attributes{AttrKeyTitle: "Morning"})
		require.NoError(t, err)
		for _, title := range []string{"run", "read"} {
			item, err := tx.Insert(model.KindChecklistItem, Attributes{AttrKeyTitle: title, AttrKeyDate: day})
			require.NoError(t, err)
			require.NoError(t, tx.Attach(f.checklist, item, RelChecklistItems, -1))
			sub, err := tx.Insert(model.KindSubItem, Attributes{AttrKeyTitle: title + " step"})
			require.NoError(t, err)
			require.NoError(t, tx.Attach(item, sub, RelItemSubItems, -1))
			f.items = append(f.items, item)
			f.subItems = append(f.subItems, sub)
		}
		return tx.Attach(f.group, f.items[0], RelGroupItems, -1)
	})
	require.NoError(t, err)
	return f
}

func exists(t *testing.T, s *Store, id string) bool {
	t.Helper()
	var ok bool
	require.NoError(t, s.View(context.Background(), func(r Reader) error {
		_, ok = r.Node(id)
		return nil
	}))
	return ok
}

func TestInsertValidatesAttributes(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Insert(ctx, model.KindChatMessage, Attributes{AttrKeyContent: "hi"})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, AttrKeyRole, verr.Field)

	_, err = s.Insert(ctx, model.KindSubItem, Attributes{"color": "red"})
	assert.True(t, model.IsValidation(err))

	_, err = s.Insert(ctx, model.KindSubItem, Attributes{AttrKeyTitle: 42})
	assert.True(t, model.IsValidation(err))

	_, err = s.Insert(ctx, model.Kind("Bogus"), Attributes{})
	assert.True(t, model.IsValidation(err))

	id, err := s.Insert(ctx, model.KindChatMessage, Attributes{AttrKeyContent: "hi", AttrKeyRole: "user"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestDeleteChecklistCascades(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Delete(context.Background(), f.checklist))

	assert.False(t, exists(t, f.store, f.checklist))
	for _, id := range append(f.items, f.subItems...) {
		assert.False(t, exists(t, f.store, id), id)
	}
	assert.True(t, exists(t, f.store, f.group))

	require.NoError(t, f.store.View(context.Background(), func(r Reader) error {
		assert.Empty(t, r.Children(f.group, RelGroupItems))
		return nil
	}))
}

func TestDeleteGroupNullifiesMembers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Delete(context.Background(), f.group))

	require.NoError(t, f.store.View(context.Background(), func(r Reader) error {
		_, ok := r.Node(f.items[0])
		assert.True(t, ok)
		_, hasGroup := r.Parent(f.items[0], RelGroupItems)
		assert.False(t, hasGroup)
		owner, ok := r.Parent(f.items[0], RelChecklistItems)
		assert.True(t, ok)
		assert.Equal(t, f.checklist, owner)
		return nil
	}))
}

func TestDeleteItemLeavesSiblings(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Delete(context.Background(), f.items[0]))

	assert.False(t, exists(t, f.store, f.subItems[0]))
	assert.True(t, exists(t, f.store, f.subItems[1]))
	require.NoError(t, f.store.View(context.Background(), func(r Reader) error {
		assert.Equal(t, []string{f.items[1]}, r.Children(f.checklist, RelChecklistItems))
		assert.Empty(t, r.Children(f.group, RelGroupItems))
		return nil
	}))
}

func TestDeleteMissingNode(t *testing.T) {
	err := New().Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestReorder(t *testing.T) {
	s := New()
	ctx := context.Background()
	var order string
	ids := map[string]string{}

	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		var err error
		order, err = tx.EnsureSingleton(model.KindGroupOrder)
		require.NoError(t, err)
		for _, name := range []string{"A", "B", "C"} {
			id, err := tx.InsertWithID(name, model.KindItemGroup, Attributes{AttrKeyTitle: name})
			require.NoError(t, err)
			ids[name] = id
			require.NoError(t, tx.Attach(order, id, RelOrderGroups, -1))
		}
		return nil
	}))

	require.NoError(t, s.Reorder(ctx, order, RelOrderGroups, []string{"C", "A", "B"}))

	read := func() []string {
		var out []string
		require.NoError(t, s.View(ctx, func(r Reader) error {
			out = r.Children(order, RelOrderGroups)
			return nil
		}))
		return out
	}
	assert.Equal(t, []string{"C", "A", "B"}, read())

	for _, bad := range [][]string{
		{"A", "A", "C"},
		{"A", "B"},
		{"A", "B", "C", "D"},
		{"A", "B", "X"},
	} {
		err := s.Reorder(ctx, order, RelOrderGroups, bad)
		assert.True(t, model.IsIndex(err), "%v", bad)
		assert.Equal(t, []string{"C", "A", "B"}, read())
	}
}

func TestAttachTransfersOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g2, err := f.store.Insert(ctx, model.KindItemGroup, Attributes{AttrKeyTitle: "Evening"})
	require.NoError(t, err)

	require.NoError(t, f.store.Attach(ctx, g2, f.items[0], RelGroupItems, -1))

	require.NoError(t, f.store.View(ctx, func(r Reader) error {
		owner, ok := r.Parent(f.items[0], RelGroupItems)
		assert.True(t, ok)
		assert.Equal(t, g2, owner)
		assert.NotContains(t, r.Children(f.group, RelGroupItems), f.items[0])
		assert.Equal(t, []string{f.items[0]}, r.Children(g2, RelGroupItems))
		return nil
	}))
}

func TestAttachPositionsAndMoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Attach(ctx, f.checklist, f.items[1], RelChecklistItems, 0))
	require.NoError(t, f.store.View(ctx, func(r Reader) error {
		assert.Equal(t, []string{f.items[1], f.items[0]}, r.Children(f.checklist, RelChecklistItems))
		return nil
	}))

	err := f.store.Attach(ctx, f.checklist, f.items[1], RelChecklistItems, 2)
	assert.True(t, model.IsIndex(err))

	err = f.store.Attach(ctx, f.checklist, f.subItems[0], RelChecklistItems, -1)
	assert.True(t, model.IsValidation(err))

	err = f.store.Attach(ctx, f.checklist, "missing", RelChecklistItems, -1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDetach(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Detach(ctx, f.group, f.items[0], RelGroupItems))
	assert.True(t, exists(t, f.store, f.items[0]))

	err := f.store.Detach(ctx, f.group, f.items[0], RelGroupItems)
	assert.True(t, model.IsIntegrity(err))
}

func TestFailedUpdateLeavesGraphUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.store.Snapshot()

	boom := errors.New("boom")
	err := f.store.Update(ctx, func(tx *Tx) error {
		require.NoError(t, tx.Delete(f.checklist))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, f.store.Snapshot())
}

type failingPersister struct{ calls int }

func (p *failingPersister) Persist(context.Context, Snapshot) error {
	p.calls++
	return errors.New("disk full")
}

func TestPersistFailureAbortsCommit(t *testing.T) {
	p := &failingPersister{}
	s := New(WithPersister(p))
	_, err := s.Insert(context.Background(), model.KindGroupOrder, Attributes{})
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
	assert.Empty(t, s.Snapshot().Nodes)
}

func TestSnapshotImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	snap := f.store.Snapshot()

	other := New()
	require.NoError(t, other.Import(snap))
	assert.Equal(t, snap, other.Snapshot())
}

func TestImportRejectsBrokenGraphs(t *testing.T) {
	nodes := []Node{
		{ID: "c", Kind: model.KindChecklist, Attrs: Attributes{AttrKeyDate: day}},
		{ID: "i", Kind: model.KindChecklistItem, Attrs: Attributes{AttrKeyDate: day}},
	}

	tests := []struct {
		name  string
		snap  Snapshot
		check func(error) bool
	}{
		{
			name:  "dangling edge",
			snap:  Snapshot{Nodes: nodes, Edges: []Edge{{Relation: RelChecklistItems, Parent: "c", Child: "gone"}}},
			check: model.IsIntegrity,
		},
		{
			name:  "wrong kinds",
			snap:  Snapshot{Nodes: nodes, Edges: []Edge{{Relation: RelItemSubItems, Parent: "i", Child: "c"}}},
			check: model.IsIntegrity,
		},
		{
			name: "two owners",
			snap: Snapshot{
				Nodes: append(append([]Node(nil), nodes...), Node{ID: "c2", Kind: model.KindChecklist, Attrs: Attributes{AttrKeyDate: day}}),
				Edges: []Edge{
					{Relation: RelChecklistItems, Parent: "c", Child: "i"},
					{Relation: RelChecklistItems, Parent: "c2", Child: "i"},
				},
			},
			check: model.IsIntegrity,
		},
		{
			name:  "missing required attribute",
			snap:  Snapshot{Nodes: []Node{{ID: "r", Kind: model.KindReport, Attrs: Attributes{}}}},
			check: model.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.Import(tt.snap)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.Empty(t, s.Snapshot().Nodes)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Insert(ctx, model.KindGroupOrder, Attributes{})
	assert.ErrorIs(t, err, context.Canceled)
}
