// Package store keeps the object graph durable in a local SQLite database.
// Each entity kind has its own table; ownership edges are foreign keys on the
// child row with a sort column, so the relational schema mirrors the graph's
// cascade and nullify rules.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
)

// SQLiteStore persists graph snapshots in a local SQLite database. It
// satisfies graph.Persister.
type SQLiteStore struct {
	db  *sqlx.DB
	log *log.Entry
}

var _ graph.Persister = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Pragmas and :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, log: log.WithField("component", "store")}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// Persist replaces the stored graph with snap in a single transaction.
func (s *SQLiteStore) Persist(ctx context.Context, snap graph.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+tables[i].name); err != nil {
			return fmt.Errorf("clearing %s: %w", tables[i].name, err)
		}
	}

	seq := make(map[string]int, len(snap.Nodes))
	for i, n := range snap.Nodes {
		seq[n.ID] = i + 1
	}

	for _, t := range tables {
		if err := insertTable(ctx, tx, t, snap, seq); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	s.log.WithFields(log.Fields{"nodes": len(snap.Nodes), "edges": len(snap.Edges)}).Debug("persisted graph")
	return nil
}

func insertTable(ctx context.Context, tx *sqlx.Tx, t table, snap graph.Snapshot, seq map[string]int) error {
	nodes := snap.NodesOf(t.kind)
	if len(nodes) == 0 {
		return nil
	}

	cols := t.columnNames()
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		t.name,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	)
	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", t.name, err)
	}
	defer stmt.Close()

	owners := make([]map[string]graph.Edge, len(t.links))
	for i, l := range t.links {
		owners[i] = snap.Owners(l.rel)
	}

	for _, n := range nodes {
		args := make([]any, 0, len(cols))
		args = append(args, n.ID, seq[n.ID])
		for i := range t.links {
			if e, ok := owners[i][n.ID]; ok {
				args = append(args, e.Parent, e.Position)
			} else {
				args = append(args, nil, 0)
			}
		}
		for _, c := range t.columns {
			args = append(args, columnValue(n.Attrs[c.attr]))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting %s %s: %w", t.kind, n.ID, err)
		}
	}
	return nil
}

// Load reads the stored graph. Rows written before identifiers were
// mandatory receive a fresh id.
func (s *SQLiteStore) Load(ctx context.Context) (graph.Snapshot, error) {
	type loaded struct {
		node graph.Node
		seq  int64
	}
	var (
		nodes []loaded
		snap  graph.Snapshot
	)

	for _, t := range tables {
		rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY seq, rowid", t.name))
		if err != nil {
			return graph.Snapshot{}, fmt.Errorf("querying %s: %w", t.name, err)
		}
		for rows.Next() {
			row := make(map[string]any)
			if err := rows.MapScan(row); err != nil {
				rows.Close()
				return graph.Snapshot{}, fmt.Errorf("scanning %s: %w", t.name, err)
			}
			n, edges, err := s.nodeFromRow(t, row)
			if err != nil {
				rows.Close()
				return graph.Snapshot{}, err
			}
			seq, _ := row["seq"].(int64)
			nodes = append(nodes, loaded{node: n, seq: seq})
			snap.Edges = append(snap.Edges, edges...)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return graph.Snapshot{}, err
		}
		rows.Close()
	}

	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].seq < nodes[j].seq })
	for _, l := range nodes {
		snap.Nodes = append(snap.Nodes, l.node)
	}
	return snap, nil
}

func (s *SQLiteStore) nodeFromRow(t table, row map[string]any) (graph.Node, []graph.Edge, error) {
	id, _ := textValue(row["id"])
	if id == "" {
		id = model.NewID()
		s.log.WithFields(log.Fields{"table": t.name, "id": id}).Warn("assigned id to legacy row")
	}

	n := graph.Node{ID: id, Kind: t.kind, Attrs: graph.Attributes{}}
	for _, c := range t.columns {
		raw := row[c.name]
		if raw == nil {
			continue
		}
		v, err := attrValue(c.typ, raw)
		if err != nil {
			return graph.Node{}, nil, fmt.Errorf("reading %s.%s of %s: %w", t.name, c.name, id, err)
		}
		n.Attrs[c.attr] = v
	}

	var edges []graph.Edge
	for _, l := range t.links {
		parent, ok := textValue(row[l.parentCol])
		if !ok || parent == "" {
			continue
		}
		pos, _ := row[l.orderCol].(int64)
		edges = append(edges, graph.Edge{Relation: l.rel, Parent: parent, Child: id, Position: int(pos)})
	}
	return n, edges, nil
}

// columnValue converts an attribute to its column representation.
func columnValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case bool:
		return boolToInt(v)
	case time.Time:
		return v.UTC()
	default:
		return v
	}
}

// timeLayouts are accepted when the driver hands back a DATETIME as text.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// attrValue converts a driver value to the attribute type of its column.
func attrValue(typ graph.AttrType, raw any) (any, error) {
	switch typ {
	case graph.AttrString:
		if s, ok := textValue(raw); ok {
			return s, nil
		}
	case graph.AttrBool:
		switch v := raw.(type) {
		case int64:
			return v != 0, nil
		case bool:
			return v, nil
		}
	case graph.AttrFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		}
	case graph.AttrTime:
		if t, ok := raw.(time.Time); ok {
			return t.UTC(), nil
		}
		if s, ok := textValue(raw); ok {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t.UTC(), nil
				}
			}
		}
	}
	return nil, fmt.Errorf("unexpected %T for %s column", raw, typ)
}

func textValue(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
