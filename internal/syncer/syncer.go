// Package syncer converts between graph nodes and detached values. It
// reads values out of the graph, writes value scalars back onto existing
// nodes, and creates new nodes from values. It never creates, deletes or
// reassigns relationship edges.
package syncer

import (
	"context"
	"fmt"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
)

// ExtractTx reads the value mirroring node id.
func ExtractTx(r graph.Reader, id string) (model.Value, error) {
	n, ok := r.Node(id)
	if !ok {
		return nil, fmt.Errorf("extracting %s: %w", id, model.ErrNotFound)
	}
	v, err := valueOf(r, n)
	if err != nil {
		return nil, fmt.Errorf("extracting %s %s: %w", n.Kind, id, err)
	}
	return v, nil
}

// ExtractTxAs reads node id and asserts it mirrors a T.
func ExtractTxAs[T model.Value](r graph.Reader, id string) (T, error) {
	var zero T
	v, err := ExtractTx(r, id)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &model.ValidationError{
			Kind:   v.Kind(),
			Reason: fmt.Sprintf("node %s has kind %s, expected %s", id, v.Kind(), zero.Kind()),
		}
	}
	return out, nil
}

// ApplyTx overwrites the scalar fields of node id with those of v. The
// node must have v's kind.
func ApplyTx(tx *graph.Tx, v model.Value, id string) error {
	if err := v.Validate(); err != nil {
		return err
	}
	n, ok := tx.Node(id)
	if !ok {
		return fmt.Errorf("applying %s onto %s: %w", v.Kind(), id, model.ErrNotFound)
	}
	if n.Kind != v.Kind() {
		return &model.ValidationError{
			Kind:   v.Kind(),
			Reason: fmt.Sprintf("cannot apply onto %s node %s", n.Kind, id),
		}
	}
	attrs, err := attrsOf(v)
	if err != nil {
		return err
	}
	return tx.SetAttrs(id, attrs)
}

// MaterializeTx inserts a node for v under v's identifier. The node is not
// attached to any parent.
func MaterializeTx(tx *graph.Tx, v model.Value) (string, error) {
	if err := v.Validate(); err != nil {
		return "", err
	}
	attrs, err := attrsOf(v)
	if err != nil {
		return "", err
	}
	return tx.InsertWithID(v.EntityID(), v.Kind(), attrs)
}

// Synchronizer runs conversions against a graph in their own units of work.
type Synchronizer struct {
	graph *graph.Store
}

// New returns a synchronizer over g.
func New(g *graph.Store) *Synchronizer {
	return &Synchronizer{graph: g}
}

// Extract reads the value mirroring node id.
func (s *Synchronizer) Extract(ctx context.Context, id string) (model.Value, error) {
	var v model.Value
	err := s.graph.View(ctx, func(r graph.Reader) error {
		var err error
		v, err = ExtractTx(r, id)
		return err
	})
	return v, err
}

// Apply overwrites the scalar fields of node id with those of v.
func (s *Synchronizer) Apply(ctx context.Context, v model.Value, id string) error {
	return s.graph.Update(ctx, func(tx *graph.Tx) error {
		return ApplyTx(tx, v, id)
	})
}

// Materialize inserts an unattached node for v and returns its id.
func (s *Synchronizer) Materialize(ctx context.Context, v model.Value) (string, error) {
	var id string
	err := s.graph.Update(ctx, func(tx *graph.Tx) error {
		var err error
		id, err = MaterializeTx(tx, v)
		return err
	})
	return id, err
}

// ExtractAs reads node id through s and asserts it mirrors a T.
func ExtractAs[T model.Value](ctx context.Context, s *Synchronizer, id string) (T, error) {
	var out T
	err := s.graph.View(ctx, func(r graph.Reader) error {
		var err error
		out, err = ExtractTxAs[T](r, id)
		return err
	})
	return out, err
}

// ChecklistItems returns the items of a checklist in display order.
func (s *Synchronizer) ChecklistItems(ctx context.Context, checklistID string) ([]model.ChecklistItem, error) {
	return childrenAs[model.ChecklistItem](ctx, s, checklistID, graph.RelChecklistItems)
}

// SubItems returns the sub-items of a checklist item in display order.
func (s *Synchronizer) SubItems(ctx context.Context, itemID string) ([]model.SubItem, error) {
	return childrenAs[model.SubItem](ctx, s, itemID, graph.RelItemSubItems)
}

// Groups returns every ranked item group, highest rank first.
func (s *Synchronizer) Groups(ctx context.Context) ([]model.ItemGroup, error) {
	var out []model.ItemGroup
	err := s.graph.View(ctx, func(r graph.Reader) error {
		orders := r.Nodes(model.KindGroupOrder)
		if len(orders) == 0 {
			return nil
		}
		var err error
		out, err = ChildrenTxAs[model.ItemGroup](r, orders[0].ID, graph.RelOrderGroups)
		return err
	})
	return out, err
}

// ChildrenTxAs extracts the children of parent along rel, in order.
func ChildrenTxAs[T model.Value](r graph.Reader, parent string, rel graph.Relation) ([]T, error) {
	if _, ok := r.Node(parent); !ok {
		return nil, fmt.Errorf("listing %s of %s: %w", rel, parent, model.ErrNotFound)
	}
	ids := r.Children(parent, rel)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v, err := ExtractTxAs[T](r, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func childrenAs[T model.Value](ctx context.Context, s *Synchronizer, parent string, rel graph.Relation) ([]T, error) {
	var out []T
	err := s.graph.View(ctx, func(r graph.Reader) error {
		var err error
		out, err = ChildrenTxAs[T](r, parent, rel)
		return err
	})
	return out, err
}
