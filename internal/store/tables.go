package store

import (
	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
)

// column maps one node attribute to a table column.
type column struct {
	name string
	attr string
	typ  graph.AttrType
}

// link maps a relation the table's kind is the child of to the foreign
// key holding the parent id and the column holding the child's position.
type link struct {
	rel       graph.Relation
	parentCol string
	orderCol  string
}

type table struct {
	name    string
	kind    model.Kind
	links   []link
	columns []column
}

// tables lists every entity table with parents ahead of their children so
// that inserts in this order satisfy the foreign keys.
var tables = []table{
	{
		name: "group_orders",
		kind: model.KindGroupOrder,
	},
	{
		name: "item_groups",
		kind: model.KindItemGroup,
		links: []link{
			{rel: graph.RelOrderGroups, parentCol: "group_order_id", orderCol: "sort_order"},
		},
		columns: []column{
			{name: "title", attr: graph.AttrKeyTitle, typ: graph.AttrString},
			{name: "notes", attr: graph.AttrKeyNotes, typ: graph.AttrString},
			{name: "color_red", attr: graph.AttrKeyColorRed, typ: graph.AttrFloat},
			{name: "color_green", attr: graph.AttrKeyColorGreen, typ: graph.AttrFloat},
			{name: "color_blue", attr: graph.AttrKeyColorBlue, typ: graph.AttrFloat},
			{name: "has_color", attr: graph.AttrKeyHasColor, typ: graph.AttrBool},
		},
	},
	{
		name: "checklists",
		kind: model.KindChecklist,
		columns: []column{
			{name: "date", attr: graph.AttrKeyDate, typ: graph.AttrTime},
			{name: "notes", attr: graph.AttrKeyNotes, typ: graph.AttrString},
		},
	},
	{
		name: "checklist_items",
		kind: model.KindChecklistItem,
		links: []link{
			{rel: graph.RelChecklistItems, parentCol: "checklist_id", orderCol: "sort_order"},
			{rel: graph.RelGroupItems, parentCol: "item_group_id", orderCol: "group_sort_order"},
		},
		columns: []column{
			{name: "title", attr: graph.AttrKeyTitle, typ: graph.AttrString},
			{name: "date", attr: graph.AttrKeyDate, typ: graph.AttrTime},
			{name: "is_completed", attr: graph.AttrKeyIsCompleted, typ: graph.AttrBool},
			{name: "notification", attr: graph.AttrKeyNotification, typ: graph.AttrTime},
		},
	},
	{
		name: "sub_items",
		kind: model.KindSubItem,
		links: []link{
			{rel: graph.RelItemSubItems, parentCol: "checklist_item_id", orderCol: "sort_order"},
		},
		columns: []column{
			{name: "title", attr: graph.AttrKeyTitle, typ: graph.AttrString},
			{name: "is_completed", attr: graph.AttrKeyIsCompleted, typ: graph.AttrBool},
		},
	},
	{
		name: "chat_histories",
		kind: model.KindChatHistory,
		columns: []column{
			{name: "is_main_history", attr: graph.AttrKeyIsMainHistory, typ: graph.AttrBool},
		},
	},
	{
		name: "chat_messages",
		kind: model.KindChatMessage,
		links: []link{
			{rel: graph.RelHistoryMessages, parentCol: "history_id", orderCol: "sort_order"},
		},
		columns: []column{
			{name: "content", attr: graph.AttrKeyContent, typ: graph.AttrString},
			{name: "role", attr: graph.AttrKeyRole, typ: graph.AttrString},
			{name: "timestamp", attr: graph.AttrKeyTimestamp, typ: graph.AttrTime},
		},
	},
	{
		name: "reports",
		kind: model.KindReport,
		columns: []column{
			{name: "date", attr: graph.AttrKeyDate, typ: graph.AttrTime},
			{name: "summary", attr: graph.AttrKeySummary, typ: graph.AttrString},
			{name: "analysis", attr: graph.AttrKeyAnalysis, typ: graph.AttrString},
			{name: "response", attr: graph.AttrKeyResponse, typ: graph.AttrString},
		},
	},
	{
		name: "snapshot_items",
		kind: model.KindSnapshotItem,
		links: []link{
			{rel: graph.RelReportItems, parentCol: "report_id", orderCol: "sort_order"},
		},
		columns: []column{
			{name: "title", attr: graph.AttrKeyTitle, typ: graph.AttrString},
			{name: "is_completed", attr: graph.AttrKeyIsCompleted, typ: graph.AttrBool},
		},
	},
	{
		name: "snapshot_sub_items",
		kind: model.KindSnapshotSubItem,
		links: []link{
			{rel: graph.RelSnapshotItemSubItems, parentCol: "snapshot_item_id", orderCol: "sort_order"},
		},
		columns: []column{
			{name: "title", attr: graph.AttrKeyTitle, typ: graph.AttrString},
		},
	},
}

// columnNames returns the insert column list of t.
func (t table) columnNames() []string {
	names := []string{"id", "seq"}
	for _, l := range t.links {
		names = append(names, l.parentCol, l.orderCol)
	}
	for _, c := range t.columns {
		names = append(names, c.name)
	}
	return names
}
