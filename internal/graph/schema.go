// Package graph holds the persistent checklist object graph: an arena of
// nodes keyed by identifier plus relation edge-sets tagged with a deletion
// rule. All mutation happens inside a transaction that either commits in
// full or leaves the graph untouched.
package graph

import (
	"time"

	"github.com/nhle/daybook/internal/model"
)

// DeleteRule decides what happens to children when their owner is deleted.
type DeleteRule int

const (
	// Nullify clears the child's back-reference and keeps the child.
	Nullify DeleteRule = iota
	// Cascade deletes the child together with its owner.
	Cascade
)

func (r DeleteRule) String() string {
	if r == Cascade {
		return "cascade"
	}
	return "nullify"
}

// Relation names an ordered parent-to-children edge set. Each child has at
// most one parent per relation.
type Relation string

const (
	RelHistoryMessages      Relation = "history.messages"
	RelChecklistItems       Relation = "checklist.items"
	RelItemSubItems         Relation = "item.subItems"
	RelGroupItems           Relation = "group.items"
	RelOrderGroups          Relation = "order.groups"
	RelReportItems          Relation = "report.items"
	RelSnapshotItemSubItems Relation = "snapshotItem.subItems"
)

// RelationSpec describes the endpoints and deletion rule of a relation.
type RelationSpec struct {
	Name   Relation
	Parent model.Kind
	Child  model.Kind
	Rule   DeleteRule
}

var relationSpecs = []RelationSpec{
	{Name: RelOrderGroups, Parent: model.KindGroupOrder, Child: model.KindItemGroup, Rule: Cascade},
	{Name: RelChecklistItems, Parent: model.KindChecklist, Child: model.KindChecklistItem, Rule: Cascade},
	{Name: RelGroupItems, Parent: model.KindItemGroup, Child: model.KindChecklistItem, Rule: Nullify},
	{Name: RelItemSubItems, Parent: model.KindChecklistItem, Child: model.KindSubItem, Rule: Cascade},
	{Name: RelHistoryMessages, Parent: model.KindChatHistory, Child: model.KindChatMessage, Rule: Cascade},
	{Name: RelReportItems, Parent: model.KindReport, Child: model.KindSnapshotItem, Rule: Cascade},
	{Name: RelSnapshotItemSubItems, Parent: model.KindSnapshotItem, Child: model.KindSnapshotSubItem, Rule: Cascade},
}

// Relations returns every relation of the schema.
func Relations() []RelationSpec {
	return append([]RelationSpec(nil), relationSpecs...)
}

// LookupRelation returns the endpoints and rule of a relation.
func LookupRelation(rel Relation) (RelationSpec, bool) {
	for _, spec := range relationSpecs {
		if spec.Name == rel {
			return spec, true
		}
	}
	return RelationSpec{}, false
}

func relationsFrom(kind model.Kind) []RelationSpec {
	var out []RelationSpec
	for _, spec := range relationSpecs {
		if spec.Parent == kind {
			out = append(out, spec)
		}
	}
	return out
}

func relationsTo(kind model.Kind) []RelationSpec {
	var out []RelationSpec
	for _, spec := range relationSpecs {
		if spec.Child == kind {
			out = append(out, spec)
		}
	}
	return out
}

// AttrType is the scalar type of an attribute.
type AttrType int

const (
	AttrString AttrType = iota
	AttrBool
	AttrTime
	AttrFloat
)

func (t AttrType) String() string {
	switch t {
	case AttrBool:
		return "bool"
	case AttrTime:
		return "time"
	case AttrFloat:
		return "float"
	default:
		return "string"
	}
}

// Attribute keys shared by the persisted schema.
const (
	AttrKeyTitle         = "title"
	AttrKeyNotes         = "notes"
	AttrKeyDate          = "date"
	AttrKeyIsCompleted   = "isCompleted"
	AttrKeyNotification  = "notification"
	AttrKeyContent       = "content"
	AttrKeyRole          = "role"
	AttrKeyTimestamp     = "timestamp"
	AttrKeyIsMainHistory = "isMainHistory"
	AttrKeyColorRed      = "colorRed"
	AttrKeyColorGreen    = "colorGreen"
	AttrKeyColorBlue     = "colorBlue"
	AttrKeyHasColor      = "hasColor"
	AttrKeySummary       = "summary"
	AttrKeyAnalysis      = "analysis"
	AttrKeyResponse      = "response"
)

type attrSpec struct {
	typ      AttrType
	required bool
}

var attrSchemas = map[model.Kind]map[string]attrSpec{
	model.KindChatHistory: {
		AttrKeyIsMainHistory: {typ: AttrBool},
	},
	model.KindChatMessage: {
		AttrKeyContent:   {typ: AttrString, required: true},
		AttrKeyRole:      {typ: AttrString, required: true},
		AttrKeyTimestamp: {typ: AttrTime},
	},
	model.KindChecklist: {
		AttrKeyDate:  {typ: AttrTime, required: true},
		AttrKeyNotes: {typ: AttrString},
	},
	model.KindChecklistItem: {
		AttrKeyTitle:        {typ: AttrString},
		AttrKeyDate:         {typ: AttrTime, required: true},
		AttrKeyIsCompleted:  {typ: AttrBool},
		AttrKeyNotification: {typ: AttrTime},
	},
	model.KindSubItem: {
		AttrKeyTitle:       {typ: AttrString},
		AttrKeyIsCompleted: {typ: AttrBool},
	},
	model.KindItemGroup: {
		AttrKeyTitle:      {typ: AttrString},
		AttrKeyNotes:      {typ: AttrString},
		AttrKeyColorRed:   {typ: AttrFloat},
		AttrKeyColorGreen: {typ: AttrFloat},
		AttrKeyColorBlue:  {typ: AttrFloat},
		AttrKeyHasColor:   {typ: AttrBool},
	},
	model.KindGroupOrder: {},
	model.KindReport: {
		AttrKeyDate:     {typ: AttrTime, required: true},
		AttrKeySummary:  {typ: AttrString},
		AttrKeyAnalysis: {typ: AttrString},
		AttrKeyResponse: {typ: AttrString},
	},
	model.KindSnapshotItem: {
		AttrKeyTitle:       {typ: AttrString},
		AttrKeyIsCompleted: {typ: AttrBool},
	},
	model.KindSnapshotSubItem: {
		AttrKeyTitle: {typ: AttrString},
	},
}

// validateAttrs checks attrs against the kind's schema: no unknown keys,
// matching types, and every required key present.
func validateAttrs(kind model.Kind, attrs Attributes) error {
	schema, ok := attrSchemas[kind]
	if !ok {
		return &model.ValidationError{Kind: kind, Reason: "unknown entity kind"}
	}
	for key, value := range attrs {
		spec, known := schema[key]
		if !known {
			return &model.ValidationError{Kind: kind, Field: key, Reason: "unknown attribute"}
		}
		if !hasType(value, spec.typ) {
			return &model.ValidationError{Kind: kind, Field: key, Reason: "expected " + spec.typ.String()}
		}
	}
	for key, spec := range attrSchemas[kind] {
		if !spec.required {
			continue
		}
		if _, present := attrs[key]; !present {
			return &model.ValidationError{Kind: kind, Field: key, Reason: "is required"}
		}
	}
	return nil
}

func hasType(value any, typ AttrType) bool {
	switch typ {
	case AttrString:
		_, ok := value.(string)
		return ok
	case AttrBool:
		_, ok := value.(bool)
		return ok
	case AttrTime:
		_, ok := value.(time.Time)
		return ok
	case AttrFloat:
		_, ok := value.(float64)
		return ok
	}
	return false
}
