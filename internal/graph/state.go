package graph

import (
	"sort"

	"github.com/nhle/daybook/internal/model"
)

// Node is a single entity record of the graph.
type Node struct {
	ID    string
	Kind  model.Kind
	Attrs Attributes
	seq   uint64
}

func (n Node) clone() Node {
	n.Attrs = n.Attrs.Clone()
	return n
}

// state is the full graph: nodes plus, per relation, the ordered children
// of each parent and the reverse owner index.
type state struct {
	nodes    map[string]Node
	children map[Relation]map[string][]string
	owners   map[Relation]map[string]string
	seq      uint64
}

func newState() state {
	s := state{
		nodes:    make(map[string]Node),
		children: make(map[Relation]map[string][]string, len(relationSpecs)),
		owners:   make(map[Relation]map[string]string, len(relationSpecs)),
	}
	for _, spec := range relationSpecs {
		s.children[spec.Name] = make(map[string][]string)
		s.owners[spec.Name] = make(map[string]string)
	}
	return s
}

func (s state) clone() state {
	out := state{
		nodes:    make(map[string]Node, len(s.nodes)),
		children: make(map[Relation]map[string][]string, len(s.children)),
		owners:   make(map[Relation]map[string]string, len(s.owners)),
		seq:      s.seq,
	}
	for id, n := range s.nodes {
		out.nodes[id] = n.clone()
	}
	for rel, byParent := range s.children {
		cp := make(map[string][]string, len(byParent))
		for parent, kids := range byParent {
			cp[parent] = append([]string(nil), kids...)
		}
		out.children[rel] = cp
	}
	for rel, byChild := range s.owners {
		cp := make(map[string]string, len(byChild))
		for child, parent := range byChild {
			cp[child] = parent
		}
		out.owners[rel] = cp
	}
	return out
}

// Reader is the read-only view over the graph shared by transactions and
// views. Returned nodes and slices are copies.
type Reader interface {
	// Node returns the node with the given id.
	Node(id string) (Node, bool)
	// Nodes returns every node of a kind in creation order.
	Nodes(kind model.Kind) []Node
	// Children returns the ordered children of parent along rel.
	Children(parent string, rel Relation) []string
	// Parent returns the owner of child along rel.
	Parent(child string, rel Relation) (string, bool)
}

type reader struct {
	st *state
}

func (r reader) Node(id string) (Node, bool) {
	n, ok := r.st.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

func (r reader) Nodes(kind model.Kind) []Node {
	var out []Node
	for _, n := range r.st.nodes {
		if n.Kind == kind {
			out = append(out, n.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (r reader) Children(parent string, rel Relation) []string {
	return append([]string(nil), r.st.children[rel][parent]...)
}

func (r reader) Parent(child string, rel Relation) (string, bool) {
	parent, ok := r.st.owners[rel][child]
	return parent, ok
}
