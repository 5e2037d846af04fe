package graph

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/daybook/internal/model"
)

// Tx is a mutable unit of work over a private copy of the graph. Nothing a
// transaction does is visible to other readers until the enclosing
// Store.Update commits it.
type Tx struct {
	reader
	state *state
	newID func() string
	log   *log.Entry
	dirty bool
}

func newTx(st state, newID func() string, entry *log.Entry) *Tx {
	tx := &Tx{state: &st, newID: newID, log: entry}
	tx.reader = reader{st: tx.state}
	return tx
}

// Insert allocates a node with a fresh identifier.
func (tx *Tx) Insert(kind model.Kind, attrs Attributes) (string, error) {
	return tx.InsertWithID(tx.newID(), kind, attrs)
}

// InsertWithID allocates a node with a caller-chosen identifier.
func (tx *Tx) InsertWithID(id string, kind model.Kind, attrs Attributes) (string, error) {
	if id == "" {
		return "", &model.ValidationError{Kind: kind, Field: "id", Reason: "must not be empty"}
	}
	if !kind.Valid() {
		return "", &model.ValidationError{Kind: kind, Reason: "unknown entity kind"}
	}
	if _, exists := tx.state.nodes[id]; exists {
		return "", &model.IntegrityError{Op: "insert", Reason: fmt.Sprintf("node %q already exists", id)}
	}
	attrs = attrs.Clone()
	if err := validateAttrs(kind, attrs); err != nil {
		return "", err
	}
	tx.state.seq++
	tx.state.nodes[id] = Node{ID: id, Kind: kind, Attrs: attrs, seq: tx.state.seq}
	tx.dirty = true
	return id, nil
}

// SetAttrs replaces every scalar of a node. Relationships are untouched.
func (tx *Tx) SetAttrs(id string, attrs Attributes) error {
	n, ok := tx.state.nodes[id]
	if !ok {
		return fmt.Errorf("setting attributes on %s: %w", id, model.ErrNotFound)
	}
	attrs = attrs.Clone()
	if err := validateAttrs(n.Kind, attrs); err != nil {
		return err
	}
	n.Attrs = attrs
	tx.state.nodes[id] = n
	tx.dirty = true
	return nil
}

// Delete removes a node. Children owned through cascade relations are
// deleted recursively; children of nullify relations only lose their
// back-reference. The node is also removed from every sequence it belongs
// to.
func (tx *Tx) Delete(id string) error {
	if _, ok := tx.state.nodes[id]; !ok {
		return fmt.Errorf("deleting %s: %w", id, model.ErrNotFound)
	}
	if err := tx.deleteNode(id, ""); err != nil {
		return err
	}
	tx.dirty = true
	return nil
}

func (tx *Tx) deleteNode(id, cause string) error {
	n, ok := tx.state.nodes[id]
	if !ok {
		return &model.IntegrityError{
			Op:     "delete",
			Reason: fmt.Sprintf("cascade from %s reached missing node %q", cause, id),
		}
	}

	for _, spec := range relationsFrom(n.Kind) {
		kids := tx.state.children[spec.Name][id]
		delete(tx.state.children[spec.Name], id)
		for _, kid := range kids {
			delete(tx.state.owners[spec.Name], kid)
			if spec.Rule != Cascade {
				continue
			}
			if err := tx.deleteNode(kid, id); err != nil {
				return err
			}
		}
	}

	for _, spec := range relationsTo(n.Kind) {
		parent, owned := tx.state.owners[spec.Name][id]
		if !owned {
			continue
		}
		tx.state.children[spec.Name][parent] = without(tx.state.children[spec.Name][parent], id)
		delete(tx.state.owners[spec.Name], id)
	}

	delete(tx.state.nodes, id)
	if cause != "" {
		tx.log.WithFields(log.Fields{"kind": n.Kind, "id": id, "owner": cause}).Debug("cascade delete")
	}
	return nil
}

// Attach adds child to parent's sequence along rel at position at, or at
// the end when at is negative. A child owned by another parent along rel
// is detached from it first; attaching to the current parent moves it.
func (tx *Tx) Attach(parent, child string, rel Relation, at int) error {
	spec, err := tx.endpoints(parent, child, rel)
	if err != nil {
		return err
	}

	kids := tx.state.children[rel][parent]
	prev, owned := tx.state.owners[rel][child]
	if owned {
		if !contains(tx.state.children[rel][prev], child) {
			return &model.IntegrityError{
				Op:     "attach",
				Reason: fmt.Sprintf("%s claims owner %q which does not list it in %s", child, prev, rel),
			}
		}
		if prev == parent {
			kids = without(kids, child)
		}
	}

	if at > len(kids) {
		return &model.IndexError{
			Relation: string(spec.Name),
			Reason:   fmt.Sprintf("position %d out of range [0,%d]", at, len(kids)),
		}
	}

	if owned && prev != parent {
		tx.state.children[rel][prev] = without(tx.state.children[rel][prev], child)
		tx.log.WithFields(log.Fields{"relation": rel, "child": child, "from": prev, "to": parent}).Debug("ownership transfer")
	}
	if at < 0 {
		at = len(kids)
	}
	kids = append(kids, "")
	copy(kids[at+1:], kids[at:])
	kids[at] = child

	tx.state.children[rel][parent] = kids
	tx.state.owners[rel][child] = parent
	tx.dirty = true
	return nil
}

// Detach removes child from parent's sequence along rel. Neither node is
// deleted.
func (tx *Tx) Detach(parent, child string, rel Relation) error {
	if _, err := tx.endpoints(parent, child, rel); err != nil {
		return err
	}
	if owner, ok := tx.state.owners[rel][child]; !ok || owner != parent {
		return &model.IntegrityError{
			Op:     "detach",
			Reason: fmt.Sprintf("%s is not attached to %s along %s", child, parent, rel),
		}
	}
	tx.state.children[rel][parent] = without(tx.state.children[rel][parent], child)
	delete(tx.state.owners[rel], child)
	tx.dirty = true
	return nil
}

// Reorder replaces the order of parent's children along rel. order must be
// a permutation of the current children; otherwise an IndexError is
// returned and the order is left unchanged.
func (tx *Tx) Reorder(parent string, rel Relation, order []string) error {
	spec, ok := LookupRelation(rel)
	if !ok {
		return &model.IntegrityError{Op: "reorder", Reason: fmt.Sprintf("unknown relation %q", rel)}
	}
	n, ok := tx.state.nodes[parent]
	if !ok {
		return fmt.Errorf("reordering %s: %w", parent, model.ErrNotFound)
	}
	if n.Kind != spec.Parent {
		return &model.ValidationError{Kind: n.Kind, Reason: fmt.Sprintf("cannot own %s", rel)}
	}

	current := tx.state.children[rel][parent]
	if len(order) != len(current) {
		return &model.IndexError{
			Relation: string(rel),
			Reason:   fmt.Sprintf("got %d ids for %d children", len(order), len(current)),
		}
	}
	remaining := make(map[string]bool, len(current))
	for _, id := range current {
		remaining[id] = true
	}
	for _, id := range order {
		if !remaining[id] {
			return &model.IndexError{
				Relation: string(rel),
				Reason:   fmt.Sprintf("%q is duplicated or not a child of %s", id, parent),
			}
		}
		delete(remaining, id)
	}

	tx.state.children[rel][parent] = append([]string(nil), order...)
	tx.dirty = true
	return nil
}

// EnsureSingleton returns the first node of kind, inserting one without
// attributes when none exists.
func (tx *Tx) EnsureSingleton(kind model.Kind) (string, error) {
	if nodes := tx.Nodes(kind); len(nodes) > 0 {
		return nodes[0].ID, nil
	}
	return tx.Insert(kind, Attributes{})
}

func (tx *Tx) endpoints(parent, child string, rel Relation) (RelationSpec, error) {
	spec, ok := LookupRelation(rel)
	if !ok {
		return RelationSpec{}, &model.IntegrityError{Op: "attach", Reason: fmt.Sprintf("unknown relation %q", rel)}
	}
	p, ok := tx.state.nodes[parent]
	if !ok {
		return spec, fmt.Errorf("parent %s: %w", parent, model.ErrNotFound)
	}
	c, ok := tx.state.nodes[child]
	if !ok {
		return spec, fmt.Errorf("child %s: %w", child, model.ErrNotFound)
	}
	if p.Kind != spec.Parent {
		return spec, &model.ValidationError{Kind: p.Kind, Reason: fmt.Sprintf("cannot own %s", rel)}
	}
	if c.Kind != spec.Child {
		return spec, &model.ValidationError{Kind: c.Kind, Reason: fmt.Sprintf("cannot be a child along %s", rel)}
	}
	return spec, nil
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// without returns a new slice with id removed.
func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
