package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_orders (
	id  TEXT PRIMARY KEY,
	seq INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS item_groups (
	id             TEXT PRIMARY KEY,
	seq            INTEGER NOT NULL DEFAULT 0,
	group_order_id TEXT REFERENCES group_orders(id) ON DELETE CASCADE,
	sort_order     INTEGER NOT NULL DEFAULT 0,
	title          TEXT,
	notes          TEXT,
	color_red      REAL,
	color_green    REAL,
	color_blue     REAL,
	has_color      INTEGER CHECK(has_color IN (0, 1))
);

CREATE TABLE IF NOT EXISTS checklists (
	id    TEXT PRIMARY KEY,
	seq   INTEGER NOT NULL DEFAULT 0,
	date  DATETIME NOT NULL,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS checklist_items (
	id               TEXT PRIMARY KEY,
	seq              INTEGER NOT NULL DEFAULT 0,
	checklist_id     TEXT REFERENCES checklists(id) ON DELETE CASCADE,
	sort_order       INTEGER NOT NULL DEFAULT 0,
	item_group_id    TEXT REFERENCES item_groups(id) ON DELETE SET NULL,
	group_sort_order INTEGER NOT NULL DEFAULT 0,
	title            TEXT,
	date             DATETIME NOT NULL,
	is_completed     INTEGER CHECK(is_completed IN (0, 1)),
	notification     DATETIME
);

CREATE TABLE IF NOT EXISTS sub_items (
	id                TEXT PRIMARY KEY,
	seq               INTEGER NOT NULL DEFAULT 0,
	checklist_item_id TEXT REFERENCES checklist_items(id) ON DELETE CASCADE,
	sort_order        INTEGER NOT NULL DEFAULT 0,
	title             TEXT,
	is_completed      INTEGER CHECK(is_completed IN (0, 1))
);

CREATE TABLE IF NOT EXISTS chat_histories (
	id              TEXT PRIMARY KEY,
	seq             INTEGER NOT NULL DEFAULT 0,
	is_main_history INTEGER CHECK(is_main_history IN (0, 1))
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         TEXT PRIMARY KEY,
	seq        INTEGER NOT NULL DEFAULT 0,
	history_id TEXT REFERENCES chat_histories(id) ON DELETE CASCADE,
	sort_order INTEGER NOT NULL DEFAULT 0,
	content    TEXT NOT NULL,
	role       TEXT NOT NULL,
	timestamp  DATETIME
);

CREATE TABLE IF NOT EXISTS reports (
	id       TEXT PRIMARY KEY,
	seq      INTEGER NOT NULL DEFAULT 0,
	date     DATETIME NOT NULL,
	summary  TEXT,
	analysis TEXT,
	response TEXT
);

CREATE TABLE IF NOT EXISTS snapshot_items (
	id           TEXT PRIMARY KEY,
	seq          INTEGER NOT NULL DEFAULT 0,
	report_id    TEXT REFERENCES reports(id) ON DELETE CASCADE,
	sort_order   INTEGER NOT NULL DEFAULT 0,
	title        TEXT,
	is_completed INTEGER CHECK(is_completed IN (0, 1))
);

CREATE TABLE IF NOT EXISTS snapshot_sub_items (
	id               TEXT PRIMARY KEY,
	seq              INTEGER NOT NULL DEFAULT 0,
	snapshot_item_id TEXT REFERENCES snapshot_items(id) ON DELETE CASCADE,
	sort_order       INTEGER NOT NULL DEFAULT 0,
	title            TEXT
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_checklists_date ON checklists(date);
CREATE INDEX IF NOT EXISTS idx_checklist_items_checklist_id ON checklist_items(checklist_id);
CREATE INDEX IF NOT EXISTS idx_checklist_items_item_group_id ON checklist_items(item_group_id);
CREATE INDEX IF NOT EXISTS idx_sub_items_checklist_item_id ON sub_items(checklist_item_id);
CREATE INDEX IF NOT EXISTS idx_chat_messages_history_id ON chat_messages(history_id);
CREATE INDEX IF NOT EXISTS idx_reports_date ON reports(date);
CREATE INDEX IF NOT EXISTS idx_snapshot_items_report_id ON snapshot_items(report_id);
CREATE INDEX IF NOT EXISTS idx_snapshot_sub_items_snapshot_item_id ON snapshot_sub_items(snapshot_item_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
