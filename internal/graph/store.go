package graph

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/daybook/internal/model"
)

// Persister durably stores a committed graph. Persist runs before the
// commit becomes visible; an error aborts the commit.
type Persister interface {
	Persist(ctx context.Context, snap Snapshot) error
}

// Option configures a Store.
type Option func(*Store)

// WithPersister makes every commit durable through p.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithIDFunc replaces the identifier generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger replaces the log entry used for debug output.
func WithLogger(entry *log.Entry) Option {
	return func(s *Store) { s.log = entry }
}

// Store owns the object graph. One Store is one store context: all of its
// mutations are serialized and atomic with respect to its readers.
type Store struct {
	mu        sync.RWMutex
	state     state
	persister Persister
	newID     func() string
	log       *log.Entry
}

// New returns an empty graph.
func New(opts ...Option) *Store {
	s := &Store{
		state: newState(),
		newID: model.NewID,
		log:   log.WithField("component", "graph"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update runs fn against a private copy of the graph and commits the copy
// only when fn and persistence both succeed.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(s.state.clone(), s.newID, s.log)
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}
	if s.persister != nil {
		if err := s.persister.Persist(ctx, tx.state.snapshot()); err != nil {
			return fmt.Errorf("persisting graph: %w", err)
		}
	}
	s.state = *tx.state
	s.log.WithField("nodes", len(s.state.nodes)).Debug("committed")
	return nil
}

// View runs fn against the committed graph.
func (s *Store) View(ctx context.Context, fn func(r Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(reader{st: &s.state})
}

// Insert allocates a node in its own transaction.
func (s *Store) Insert(ctx context.Context, kind model.Kind, attrs Attributes) (string, error) {
	var id string
	err := s.Update(ctx, func(tx *Tx) error {
		var err error
		id, err = tx.Insert(kind, attrs)
		return err
	})
	return id, err
}

// Delete removes a node and its cascade-owned subtree in one transaction.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.Update(ctx, func(tx *Tx) error { return tx.Delete(id) })
}

// Attach links child under parent in its own transaction.
func (s *Store) Attach(ctx context.Context, parent, child string, rel Relation, at int) error {
	return s.Update(ctx, func(tx *Tx) error { return tx.Attach(parent, child, rel, at) })
}

// Detach unlinks child from parent in its own transaction.
func (s *Store) Detach(ctx context.Context, parent, child string, rel Relation) error {
	return s.Update(ctx, func(tx *Tx) error { return tx.Detach(parent, child, rel) })
}

// Reorder replaces the order of parent's children in its own transaction.
func (s *Store) Reorder(ctx context.Context, parent string, rel Relation, order []string) error {
	return s.Update(ctx, func(tx *Tx) error { return tx.Reorder(parent, rel, order) })
}

// Snapshot returns a detached copy of the committed graph.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// Import replaces the graph with snap after validating every node and
// edge. The persister is not invoked.
func (s *Store) Import(snap Snapshot) error {
	st, err := stateFromSnapshot(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.log.WithField("nodes", len(st.nodes)).Debug("imported")
	return nil
}
