package syncer

import (
	"fmt"
	"time"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
)

// attrsOf renders the scalar fields of v as node attributes. Child
// collections carried by container values are not rendered.
func attrsOf(v model.Value) (graph.Attributes, error) {
	switch v := v.(type) {
	case model.Checklist:
		return graph.Attributes{
			graph.AttrKeyDate:  v.Date,
			graph.AttrKeyNotes: v.Notes,
		}, nil
	case model.ChecklistItem:
		attrs := graph.Attributes{
			graph.AttrKeyTitle:       v.Title(),
			graph.AttrKeyDate:        v.Date(),
			graph.AttrKeyIsCompleted: v.IsCompleted(),
		}
		if at, ok := v.Notification(); ok {
			attrs[graph.AttrKeyNotification] = at
		}
		return attrs, nil
	case model.SubItem:
		return graph.Attributes{
			graph.AttrKeyTitle:       v.Title(),
			graph.AttrKeyIsCompleted: v.IsCompleted(),
		}, nil
	case model.ItemGroup:
		red, green, blue, ok := v.Color().RGB()
		return graph.Attributes{
			graph.AttrKeyTitle:      v.Title(),
			graph.AttrKeyNotes:      v.Notes(),
			graph.AttrKeyColorRed:   red,
			graph.AttrKeyColorGreen: green,
			graph.AttrKeyColorBlue:  blue,
			graph.AttrKeyHasColor:   ok,
		}, nil
	case model.GroupOrder:
		return graph.Attributes{}, nil
	case model.ChatHistory:
		return graph.Attributes{graph.AttrKeyIsMainHistory: v.IsMainHistory}, nil
	case model.ChatMessage:
		attrs := graph.Attributes{
			graph.AttrKeyContent: v.Content,
			graph.AttrKeyRole:    string(v.Role),
		}
		if !v.Timestamp.IsZero() {
			attrs[graph.AttrKeyTimestamp] = v.Timestamp
		}
		return attrs, nil
	case model.Report:
		return graph.Attributes{
			graph.AttrKeyDate:     v.Date,
			graph.AttrKeySummary:  v.Summary,
			graph.AttrKeyAnalysis: v.Analysis,
			graph.AttrKeyResponse: v.Response,
		}, nil
	case model.SnapshotItem:
		return graph.Attributes{
			graph.AttrKeyTitle:       v.Title,
			graph.AttrKeyIsCompleted: v.IsCompleted,
		}, nil
	case model.SnapshotSubItem:
		return graph.Attributes{graph.AttrKeyTitle: v.Title}, nil
	}
	return nil, &model.ValidationError{Reason: fmt.Sprintf("unsupported value type %T", v)}
}

// valueOf builds the value mirroring n. Container kinds read their direct
// children one level deep; children are built without their back-references.
func valueOf(r graph.Reader, n graph.Node) (model.Value, error) {
	a := n.Attrs
	switch n.Kind {
	case model.KindChecklist:
		return model.NewChecklist(n.ID, timeOr(a, graph.AttrKeyDate), stringOr(a, graph.AttrKeyNotes))
	case model.KindChecklistItem:
		return checklistItemOf(n)
	case model.KindSubItem:
		return subItemOf(n)
	case model.KindItemGroup:
		return itemGroupOf(r, n)
	case model.KindGroupOrder:
		return model.GroupOrder{ID: n.ID, GroupIDs: r.Children(n.ID, graph.RelOrderGroups)}, nil
	case model.KindChatHistory:
		return chatHistoryOf(r, n)
	case model.KindChatMessage:
		return chatMessageOf(n)
	case model.KindReport:
		return reportOf(r, n)
	case model.KindSnapshotItem:
		return snapshotItemOf(r, n)
	case model.KindSnapshotSubItem:
		return model.NewSnapshotSubItem(n.ID, stringOr(a, graph.AttrKeyTitle))
	}
	return nil, &model.ValidationError{Kind: n.Kind, Reason: "unknown entity kind"}
}

func checklistItemOf(n graph.Node) (model.ChecklistItem, error) {
	item, err := model.NewChecklistItem(n.ID, stringOr(n.Attrs, graph.AttrKeyTitle), timeOr(n.Attrs, graph.AttrKeyDate))
	if err != nil {
		return model.ChecklistItem{}, err
	}
	item = item.WithCompleted(boolOr(n.Attrs, graph.AttrKeyIsCompleted))
	if at, ok := n.Attrs.Time(graph.AttrKeyNotification); ok {
		item = item.WithNotification(at)
	}
	return item, nil
}

func subItemOf(n graph.Node) (model.SubItem, error) {
	sub, err := model.NewSubItem(n.ID, stringOr(n.Attrs, graph.AttrKeyTitle))
	if err != nil {
		return model.SubItem{}, err
	}
	return sub.WithCompleted(boolOr(n.Attrs, graph.AttrKeyIsCompleted)), nil
}

func itemGroupOf(r graph.Reader, n graph.Node) (model.ItemGroup, error) {
	color := model.NoColor()
	if boolOr(n.Attrs, graph.AttrKeyHasColor) {
		color = model.NewColor(
			floatOr(n.Attrs, graph.AttrKeyColorRed),
			floatOr(n.Attrs, graph.AttrKeyColorGreen),
			floatOr(n.Attrs, graph.AttrKeyColorBlue),
		)
	}
	g, err := model.NewItemGroup(n.ID, stringOr(n.Attrs, graph.AttrKeyTitle), stringOr(n.Attrs, graph.AttrKeyNotes), color)
	if err != nil {
		return model.ItemGroup{}, err
	}
	for _, id := range r.Children(n.ID, graph.RelGroupItems) {
		child, ok := r.Node(id)
		if !ok {
			return model.ItemGroup{}, danglingChild(n.ID, id)
		}
		item, err := checklistItemOf(child)
		if err != nil {
			return model.ItemGroup{}, err
		}
		g = g.AddItem(item)
	}
	return g, nil
}

func chatMessageOf(n graph.Node) (model.ChatMessage, error) {
	return model.NewChatMessage(
		n.ID,
		model.Role(stringOr(n.Attrs, graph.AttrKeyRole)),
		stringOr(n.Attrs, graph.AttrKeyContent),
		timeOr(n.Attrs, graph.AttrKeyTimestamp),
	)
}

func chatHistoryOf(r graph.Reader, n graph.Node) (model.ChatHistory, error) {
	h := model.ChatHistory{ID: n.ID, IsMainHistory: boolOr(n.Attrs, graph.AttrKeyIsMainHistory)}
	for _, id := range r.Children(n.ID, graph.RelHistoryMessages) {
		child, ok := r.Node(id)
		if !ok {
			return model.ChatHistory{}, danglingChild(n.ID, id)
		}
		msg, err := chatMessageOf(child)
		if err != nil {
			return model.ChatHistory{}, err
		}
		h.Messages = append(h.Messages, msg)
	}
	return h, nil
}

func reportOf(r graph.Reader, n graph.Node) (model.Report, error) {
	report := model.Report{
		ID:       n.ID,
		Date:     timeOr(n.Attrs, graph.AttrKeyDate),
		Summary:  stringOr(n.Attrs, graph.AttrKeySummary),
		Analysis: stringOr(n.Attrs, graph.AttrKeyAnalysis),
		Response: stringOr(n.Attrs, graph.AttrKeyResponse),
	}
	for _, id := range r.Children(n.ID, graph.RelReportItems) {
		child, ok := r.Node(id)
		if !ok {
			return model.Report{}, danglingChild(n.ID, id)
		}
		item, err := snapshotItemOf(r, child)
		if err != nil {
			return model.Report{}, err
		}
		report.Items = append(report.Items, item)
	}
	return report, report.Validate()
}

func snapshotItemOf(r graph.Reader, n graph.Node) (model.SnapshotItem, error) {
	item, err := model.NewSnapshotItem(n.ID, stringOr(n.Attrs, graph.AttrKeyTitle), boolOr(n.Attrs, graph.AttrKeyIsCompleted))
	if err != nil {
		return model.SnapshotItem{}, err
	}
	for _, id := range r.Children(n.ID, graph.RelSnapshotItemSubItems) {
		child, ok := r.Node(id)
		if !ok {
			return model.SnapshotItem{}, danglingChild(n.ID, id)
		}
		sub, err := model.NewSnapshotSubItem(child.ID, stringOr(child.Attrs, graph.AttrKeyTitle))
		if err != nil {
			return model.SnapshotItem{}, err
		}
		item.SubItems = append(item.SubItems, sub)
	}
	return item, nil
}

func danglingChild(parent, child string) error {
	return &model.IntegrityError{Op: "extract", Reason: fmt.Sprintf("%s lists missing child %s", parent, child)}
}

func stringOr(a graph.Attributes, key string) string {
	v, _ := a.String(key)
	return v
}

func boolOr(a graph.Attributes, key string) bool {
	v, _ := a.Bool(key)
	return v
}

func floatOr(a graph.Attributes, key string) float64 {
	v, _ := a.Float(key)
	return v
}

func timeOr(a graph.Attributes, key string) time.Time {
	v, _ := a.Time(key)
	return v
}
