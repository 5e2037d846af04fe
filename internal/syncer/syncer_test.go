package syncer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
)

var day = time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

func newItem(t *testing.T, title string, at time.Time) model.ChecklistItem {
	t.Helper()
	item, err := model.NewChecklistItem(model.NewID(), title, at)
	require.NoError(t, err)
	return item
}

func TestRoundTripScalars(t *testing.T) {
	ctx := context.Background()
	s := New(graph.New())

	group, err := model.NewItemGroup(model.NewID(), "Health", "daily", model.NewColor(0.2, 1.5, -3))
	require.NoError(t, err)
	plainGroup, err := model.NewItemGroup(model.NewID(), "Plain", "", model.NoColor())
	require.NoError(t, err)
	checklist, err := model.NewChecklist(model.NewID(), day, "busy day")
	require.NoError(t, err)
	sub, err := model.NewSubItem(model.NewID(), "stretch")
	require.NoError(t, err)
	msg, err := model.NewChatMessage(model.NewID(), model.RoleUser, "how was my day?", day.Add(time.Hour))
	require.NoError(t, err)

	values := []model.Value{
		checklist,
		newItem(t, "walk", day).WithCompleted(true).WithNotification(day.Add(8 * time.Hour)),
		newItem(t, "", day),
		sub.WithCompleted(true),
		group,
		plainGroup,
		model.GroupOrder{ID: model.NewID()},
		model.ChatHistory{ID: model.NewID(), IsMainHistory: true},
		msg,
		model.Report{ID: model.NewID(), Date: day, Summary: "s", Analysis: "a", Response: "r"},
		model.SnapshotItem{ID: model.NewID(), Title: "walk", IsCompleted: true},
		model.SnapshotSubItem{ID: model.NewID(), Title: "stretch"},
	}

	for _, v := range values {
		t.Run(string(v.Kind()), func(t *testing.T) {
			id, err := s.Materialize(ctx, v)
			require.NoError(t, err)
			assert.Equal(t, v.EntityID(), id)

			got, err := s.Extract(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		})
	}
}

func TestMaterializeRejectsLongSnapshotTitles(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	s := New(g)

	_, err := s.Materialize(ctx, model.SnapshotItem{ID: model.NewID(), Title: strings.Repeat("x", 500)})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Empty(t, g.Snapshot().Nodes)

	sub := model.SnapshotSubItem{ID: model.NewID(), Title: "ok"}
	_, err = s.Materialize(ctx, sub)
	require.NoError(t, err)
	sub.Title = strings.Repeat("y", 201)
	assert.True(t, model.IsValidation(s.Apply(ctx, sub, sub.ID)))

	got, err := ExtractAs[model.SnapshotSubItem](ctx, s, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Title)
}

func TestExtractTruncatesLongSnapshotTitles(t *testing.T) {
	ctx := context.Background()
	g := graph.New()

	id, err := g.Insert(ctx, model.KindSnapshotItem, graph.Attributes{graph.AttrKeyTitle: strings.Repeat("x", 500)})
	require.NoError(t, err)

	got, err := ExtractAs[model.SnapshotItem](ctx, New(g), id)
	require.NoError(t, err)
	assert.Equal(t, model.MaxTitleLength, len(got.Title))
}

func TestExtractGroupReadsOneLevel(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	s := New(g)

	group, err := model.NewItemGroup(model.NewID(), "Errands", "", model.NoColor())
	require.NoError(t, err)
	late := newItem(t, "post office", day.Add(3*time.Hour))
	early := newItem(t, "bank", day.Add(time.Hour))

	require.NoError(t, g.Update(ctx, func(tx *graph.Tx) error {
		for _, v := range []model.Value{group, late, early} {
			if _, err := MaterializeTx(tx, v); err != nil {
				return err
			}
		}
		sub, err := tx.Insert(model.KindSubItem, graph.Attributes{graph.AttrKeyTitle: "bring id"})
		if err != nil {
			return err
		}
		if err := tx.Attach(early.ID(), sub, graph.RelItemSubItems, -1); err != nil {
			return err
		}
		if err := tx.Attach(group.ID(), late.ID(), graph.RelGroupItems, -1); err != nil {
			return err
		}
		return tx.Attach(group.ID(), early.ID(), graph.RelGroupItems, -1)
	}))

	got, err := ExtractAs[model.ItemGroup](ctx, s, group.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{late.ID(), early.ID()}, got.ItemIDs())

	all := got.GetAllItems()
	require.Len(t, all, 2)
	assert.Equal(t, early.ID(), all[0].ID())
	assert.Equal(t, "bank", all[0].Title())
}

func TestApplyOverwritesScalarsOnly(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	s := New(g)

	group, err := model.NewItemGroup(model.NewID(), "Work", "", model.NoColor())
	require.NoError(t, err)
	item := newItem(t, "email", day)

	require.NoError(t, g.Update(ctx, func(tx *graph.Tx) error {
		if _, err := MaterializeTx(tx, group); err != nil {
			return err
		}
		if _, err := MaterializeTx(tx, item); err != nil {
			return err
		}
		return tx.Attach(group.ID(), item.ID(), graph.RelGroupItems, -1)
	}))

	// The value passed in holds no items; applying it must not detach any.
	renamed := group.UpdateTitle("Deep work").SetColor(0, 0, 1)
	require.NoError(t, s.Apply(ctx, renamed, group.ID()))

	got, err := ExtractAs[model.ItemGroup](ctx, s, group.ID())
	require.NoError(t, err)
	assert.Equal(t, "Deep work", got.Title())
	assert.True(t, got.Color().IsSet())
	assert.True(t, got.ContainsItem(item.ID()))

	require.NoError(t, s.Apply(ctx, item.WithNotification(day.Add(time.Hour)).WithoutNotification().WithCompleted(true), item.ID()))
	gotItem, err := ExtractAs[model.ChecklistItem](ctx, s, item.ID())
	require.NoError(t, err)
	assert.True(t, gotItem.IsCompleted())
	_, hasNotification := gotItem.Notification()
	assert.False(t, hasNotification)
}

func TestApplyRejectsMismatches(t *testing.T) {
	ctx := context.Background()
	s := New(graph.New())
	item := newItem(t, "x", day)
	_, err := s.Materialize(ctx, item)
	require.NoError(t, err)

	sub, err := model.NewSubItem(model.NewID(), "y")
	require.NoError(t, err)
	assert.True(t, model.IsValidation(s.Apply(ctx, sub, item.ID())))
	assert.ErrorIs(t, s.Apply(ctx, item, "missing"), model.ErrNotFound)
	assert.True(t, model.IsValidation(s.Apply(ctx, model.ChecklistItem{}, item.ID())))

	_, err = ExtractAs[model.SubItem](ctx, s, item.ID())
	assert.True(t, model.IsValidation(err))
}

func TestMaterializeDoesNotAttach(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	s := New(g)

	item := newItem(t, "orphan", day)
	_, err := s.Materialize(ctx, item)
	require.NoError(t, err)

	require.NoError(t, g.View(ctx, func(r graph.Reader) error {
		for _, spec := range graph.Relations() {
			_, owned := r.Parent(item.ID(), spec.Name)
			assert.False(t, owned, spec.Name)
		}
		return nil
	}))

	_, err = s.Materialize(ctx, item)
	assert.True(t, model.IsIntegrity(err))
}

func TestExtractFillsDefaultsForPartialRecords(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	s := New(g)

	itemID, err := g.Insert(ctx, model.KindChecklistItem, graph.Attributes{graph.AttrKeyDate: day})
	require.NoError(t, err)
	groupID, err := g.Insert(ctx, model.KindItemGroup, graph.Attributes{
		graph.AttrKeyColorRed: 0.5,
	})
	require.NoError(t, err)

	item, err := ExtractAs[model.ChecklistItem](ctx, s, itemID)
	require.NoError(t, err)
	assert.Equal(t, "", item.Title())
	assert.False(t, item.IsCompleted())

	group, err := ExtractAs[model.ItemGroup](ctx, s, groupID)
	require.NoError(t, err)
	assert.Equal(t, "", group.Title())
	assert.False(t, group.Color().IsSet())
}

func TestOrderedReads(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	s := New(g)

	checklist, err := model.NewChecklist(model.NewID(), day, "")
	require.NoError(t, err)
	titles := []string{"first", "second", "third"}

	require.NoError(t, g.Update(ctx, func(tx *graph.Tx) error {
		if _, err := MaterializeTx(tx, checklist); err != nil {
			return err
		}
		for _, title := range titles {
			item := newItem(t, title, day)
			if _, err := MaterializeTx(tx, item); err != nil {
				return err
			}
			if err := tx.Attach(checklist.ID, item.ID(), graph.RelChecklistItems, 0); err != nil {
				return err
			}
		}
		return nil
	}))

	items, err := s.ChecklistItems(ctx, checklist.ID)
	require.NoError(t, err)
	var got []string
	for _, item := range items {
		got = append(got, item.Title())
	}
	assert.Equal(t, []string{"third", "second", "first"}, got)

	_, err = s.ChecklistItems(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	groups, err := s.Groups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
