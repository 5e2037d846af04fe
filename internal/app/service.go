// Package app is the owning caller of the graph: it creates checklists and
// their items, wires them into groups and keeps the group ranking.
package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/syncer"
)

// Service groups the checklist operations of the application.
type Service struct {
	graph *graph.Store
	log   *log.Entry
}

// NewService returns a service over g.
func NewService(g *graph.Store) *Service {
	return &Service{graph: g, log: log.WithField("component", "app")}
}

// Day returns the calendar day of t as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ChecklistFor returns the checklist of the calendar day containing date,
// creating it when none exists.
func (s *Service) ChecklistFor(ctx context.Context, date time.Time) (model.Checklist, error) {
	day := Day(date)
	var checklist model.Checklist
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		for _, n := range tx.Nodes(model.KindChecklist) {
			existing, err := syncer.ExtractTxAs[model.Checklist](tx, n.ID)
			if err != nil {
				return err
			}
			if Day(existing.Date).Equal(day) {
				checklist = existing
				return nil
			}
		}

		created, err := model.NewChecklist(model.NewID(), day, "")
		if err != nil {
			return err
		}
		if _, err := syncer.MaterializeTx(tx, created); err != nil {
			return err
		}
		checklist = created
		s.log.WithField("date", day.Format(time.DateOnly)).Debug("created checklist")
		return nil
	})
	if err != nil {
		return model.Checklist{}, fmt.Errorf("getting checklist for %s: %w", day.Format(time.DateOnly), err)
	}
	return checklist, nil
}

// Items returns the items of a checklist in order.
func (s *Service) Items(ctx context.Context, checklistID string) ([]model.ChecklistItem, error) {
	return syncer.New(s.graph).ChecklistItems(ctx, checklistID)
}

// AddItem appends a new item dated like its checklist.
func (s *Service) AddItem(ctx context.Context, checklistID, title string) (model.ChecklistItem, error) {
	var item model.ChecklistItem
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		checklist, err := syncer.ExtractTxAs[model.Checklist](tx, checklistID)
		if err != nil {
			return err
		}
		item, err = model.NewChecklistItem(model.NewID(), title, checklist.Date)
		if err != nil {
			return err
		}
		if _, err := syncer.MaterializeTx(tx, item); err != nil {
			return err
		}
		return tx.Attach(checklistID, item.ID(), graph.RelChecklistItems, -1)
	})
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("adding item to checklist %s: %w", checklistID, err)
	}
	return item, nil
}

// AddSubItem appends a new sub-item to an item.
func (s *Service) AddSubItem(ctx context.Context, itemID, title string) (model.SubItem, error) {
	var sub model.SubItem
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		if err := requireKind(tx, itemID, model.KindChecklistItem); err != nil {
			return err
		}
		var err error
		sub, err = model.NewSubItem(model.NewID(), title)
		if err != nil {
			return err
		}
		if _, err := syncer.MaterializeTx(tx, sub); err != nil {
			return err
		}
		return tx.Attach(itemID, sub.ID(), graph.RelItemSubItems, -1)
	})
	if err != nil {
		return model.SubItem{}, fmt.Errorf("adding sub-item to %s: %w", itemID, err)
	}
	return sub, nil
}

// RemoveItem deletes an item with its sub-items and drops it from its group.
func (s *Service) RemoveItem(ctx context.Context, itemID string) error {
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		if err := requireKind(tx, itemID, model.KindChecklistItem); err != nil {
			return err
		}
		return tx.Delete(itemID)
	})
	if err != nil {
		return fmt.Errorf("removing item %s: %w", itemID, err)
	}
	return nil
}

// UpdateItem writes the scalars of item back to the graph.
func (s *Service) UpdateItem(ctx context.Context, item model.ChecklistItem) error {
	if err := syncer.New(s.graph).Apply(ctx, item, item.ID()); err != nil {
		return fmt.Errorf("updating item %s: %w", item.ID(), err)
	}
	return nil
}

// ToggleItem flips the completion state of an item.
func (s *Service) ToggleItem(ctx context.Context, itemID string) (model.ChecklistItem, error) {
	var item model.ChecklistItem
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		current, err := syncer.ExtractTxAs[model.ChecklistItem](tx, itemID)
		if err != nil {
			return err
		}
		item = current.WithCompleted(!current.IsCompleted())
		return syncer.ApplyTx(tx, item, itemID)
	})
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("toggling item %s: %w", itemID, err)
	}
	return item, nil
}

// MoveItem moves an item to index to within its checklist.
func (s *Service) MoveItem(ctx context.Context, checklistID, itemID string, to int) error {
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		owner, ok := tx.Parent(itemID, graph.RelChecklistItems)
		if !ok || owner != checklistID {
			return &model.IntegrityError{Op: "move", Reason: fmt.Sprintf("%s is not an item of %s", itemID, checklistID)}
		}
		// Attach with the current owner removes the item before inserting,
		// so valid targets are 0..len-1.
		if to < 0 || to >= len(tx.Children(checklistID, graph.RelChecklistItems)) {
			return &model.IndexError{Relation: string(graph.RelChecklistItems), Reason: fmt.Sprintf("index %d out of range", to)}
		}
		return tx.Attach(checklistID, itemID, graph.RelChecklistItems, to)
	})
	if err != nil {
		return fmt.Errorf("moving item %s: %w", itemID, err)
	}
	return nil
}

// CreateGroup creates a group ranked last.
func (s *Service) CreateGroup(ctx context.Context, title, notes string, color model.Color) (model.ItemGroup, error) {
	var group model.ItemGroup
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		orderID, err := tx.EnsureSingleton(model.KindGroupOrder)
		if err != nil {
			return err
		}
		group, err = model.NewItemGroup(model.NewID(), title, notes, color)
		if err != nil {
			return err
		}
		if _, err := syncer.MaterializeTx(tx, group); err != nil {
			return err
		}
		return tx.Attach(orderID, group.ID(), graph.RelOrderGroups, -1)
	})
	if err != nil {
		return model.ItemGroup{}, fmt.Errorf("creating group %q: %w", title, err)
	}
	return group, nil
}

// Group returns a group with its items.
func (s *Service) Group(ctx context.Context, groupID string) (model.ItemGroup, error) {
	return syncer.ExtractAs[model.ItemGroup](ctx, syncer.New(s.graph), groupID)
}

// Groups returns every ranked group.
func (s *Service) Groups(ctx context.Context) ([]model.ItemGroup, error) {
	return syncer.New(s.graph).Groups(ctx)
}

// UpdateGroup writes the title, notes and color of group back to the graph.
// Membership is unchanged.
func (s *Service) UpdateGroup(ctx context.Context, group model.ItemGroup) error {
	if err := syncer.New(s.graph).Apply(ctx, group, group.ID()); err != nil {
		return fmt.Errorf("updating group %s: %w", group.ID(), err)
	}
	return nil
}

// DeleteGroup deletes a group. Its items stay in their checklists.
func (s *Service) DeleteGroup(ctx context.Context, groupID string) error {
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		if err := requireKind(tx, groupID, model.KindItemGroup); err != nil {
			return err
		}
		return tx.Delete(groupID)
	})
	if err != nil {
		return fmt.Errorf("deleting group %s: %w", groupID, err)
	}
	return nil
}

// AssignToGroup makes itemID a member of groupID, leaving any previous group.
func (s *Service) AssignToGroup(ctx context.Context, groupID, itemID string) error {
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		if owner, ok := tx.Parent(itemID, graph.RelGroupItems); ok && owner == groupID {
			return nil
		}
		return tx.Attach(groupID, itemID, graph.RelGroupItems, -1)
	})
	if err != nil {
		return fmt.Errorf("assigning item %s to group %s: %w", itemID, groupID, err)
	}
	return nil
}

// RemoveFromGroup ends the membership of itemID in groupID.
func (s *Service) RemoveFromGroup(ctx context.Context, groupID, itemID string) error {
	if err := s.graph.Detach(ctx, groupID, itemID, graph.RelGroupItems); err != nil {
		return fmt.Errorf("removing item %s from group %s: %w", itemID, groupID, err)
	}
	return nil
}

// RankGroups sets the group ranking. groupIDs must list every group once.
func (s *Service) RankGroups(ctx context.Context, groupIDs []string) error {
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		orderID, err := tx.EnsureSingleton(model.KindGroupOrder)
		if err != nil {
			return err
		}
		return tx.Reorder(orderID, graph.RelOrderGroups, groupIDs)
	})
	if err != nil {
		return fmt.Errorf("ranking groups: %w", err)
	}
	return nil
}

func requireKind(r graph.Reader, id string, kind model.Kind) error {
	n, ok := r.Node(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	if n.Kind != kind {
		return &model.ValidationError{Kind: kind, Reason: fmt.Sprintf("%s is a %s", id, n.Kind)}
	}
	return nil
}
