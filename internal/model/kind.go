package model

// Kind identifies the entity type of a persistent node and of the value
// that mirrors it.
type Kind string

// Entity kinds of the checklist graph.
const (
	KindChatHistory     Kind = "ChatHistory"
	KindChatMessage     Kind = "ChatMessage"
	KindChecklist       Kind = "Checklist"
	KindChecklistItem   Kind = "ChecklistItem"
	KindSubItem         Kind = "SubItem"
	KindItemGroup       Kind = "ItemGroup"
	KindGroupOrder      Kind = "GroupOrder"
	KindReport          Kind = "Report"
	KindSnapshotItem    Kind = "SnapshotItem"
	KindSnapshotSubItem Kind = "SnapshotSubItem"
)

// Kinds lists every entity kind in dependency order (owners before the
// entities they own).
func Kinds() []Kind {
	return []Kind{
		KindGroupOrder, KindItemGroup,
		KindChecklist, KindChecklistItem, KindSubItem,
		KindChatHistory, KindChatMessage,
		KindReport, KindSnapshotItem, KindSnapshotSubItem,
	}
}

// Valid reports whether k is a known entity kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Value is implemented by every detached value type.
type Value interface {
	// EntityID returns the stable identifier of the mirrored entity.
	EntityID() string
	// Kind returns the entity kind the value mirrors.
	Kind() Kind
	// Validate checks the value's invariants. Zero values are invalid.
	Validate() error
}
