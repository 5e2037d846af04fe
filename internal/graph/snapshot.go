package graph

import (
	"fmt"
	"sort"

	"github.com/nhle/daybook/internal/model"
)

// Edge is one parent-to-child link at a position of an ordered relation.
type Edge struct {
	Relation Relation
	Parent   string
	Child    string
	Position int
}

// Snapshot is the exported form of the graph handed to persistence.
// Nodes are in creation order; edges are grouped by relation and parent in
// position order.
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}

// NodesOf returns the nodes of a kind.
func (s Snapshot) NodesOf(kind model.Kind) []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Owners returns, for rel, the parent and position of every child.
func (s Snapshot) Owners(rel Relation) map[string]Edge {
	out := make(map[string]Edge)
	for _, e := range s.Edges {
		if e.Relation == rel {
			out[e.Child] = e
		}
	}
	return out
}

func (s state) snapshot() Snapshot {
	snap := Snapshot{Nodes: make([]Node, 0, len(s.nodes))}
	for _, n := range s.nodes {
		snap.Nodes = append(snap.Nodes, n.clone())
	}
	sort.Slice(snap.Nodes, func(i, j int) bool { return snap.Nodes[i].seq < snap.Nodes[j].seq })

	for _, spec := range relationSpecs {
		parents := make([]string, 0, len(s.children[spec.Name]))
		for parent := range s.children[spec.Name] {
			parents = append(parents, parent)
		}
		sort.Strings(parents)
		for _, parent := range parents {
			for pos, child := range s.children[spec.Name][parent] {
				snap.Edges = append(snap.Edges, Edge{Relation: spec.Name, Parent: parent, Child: child, Position: pos})
			}
		}
	}
	return snap
}

func stateFromSnapshot(snap Snapshot) (state, error) {
	st := newState()
	for _, n := range snap.Nodes {
		if n.ID == "" {
			return state{}, &model.ValidationError{Kind: n.Kind, Field: "id", Reason: "must not be empty"}
		}
		if !n.Kind.Valid() {
			return state{}, &model.ValidationError{Kind: n.Kind, Reason: "unknown entity kind"}
		}
		if _, dup := st.nodes[n.ID]; dup {
			return state{}, &model.IntegrityError{Op: "import", Reason: fmt.Sprintf("duplicate node %q", n.ID)}
		}
		attrs := n.Attrs.Clone()
		if err := validateAttrs(n.Kind, attrs); err != nil {
			return state{}, fmt.Errorf("importing %s: %w", n.ID, err)
		}
		st.seq++
		st.nodes[n.ID] = Node{ID: n.ID, Kind: n.Kind, Attrs: attrs, seq: st.seq}
	}

	edges := append([]Edge(nil), snap.Edges...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Position < edges[j].Position })
	for _, e := range edges {
		spec, ok := LookupRelation(e.Relation)
		if !ok {
			return state{}, &model.IntegrityError{Op: "import", Reason: fmt.Sprintf("unknown relation %q", e.Relation)}
		}
		parent, okParent := st.nodes[e.Parent]
		child, okChild := st.nodes[e.Child]
		if !okParent || !okChild {
			return state{}, &model.IntegrityError{
				Op:     "import",
				Reason: fmt.Sprintf("edge %s %s->%s references a missing node", e.Relation, e.Parent, e.Child),
			}
		}
		if parent.Kind != spec.Parent || child.Kind != spec.Child {
			return state{}, &model.IntegrityError{
				Op:     "import",
				Reason: fmt.Sprintf("edge %s joins %s to %s", e.Relation, parent.Kind, child.Kind),
			}
		}
		if owner, owned := st.owners[e.Relation][e.Child]; owned {
			return state{}, &model.IntegrityError{
				Op:     "import",
				Reason: fmt.Sprintf("%s owned by both %s and %s along %s", e.Child, owner, e.Parent, e.Relation),
			}
		}
		st.children[e.Relation][e.Parent] = append(st.children[e.Relation][e.Parent], e.Child)
		st.owners[e.Relation][e.Child] = e.Parent
	}
	return st, nil
}
