package model

import "sort"

// ItemGroup is a named, optionally colored collection of checklist items.
//
// The group holds a shallow mapping of its member items keyed by id. Member
// values never point back at the group. Every mutator returns a modified
// copy and leaves the receiver untouched.
type ItemGroup struct {
	id    string
	title string
	notes string
	color Color
	items map[string]ChecklistItem
	order []string
}

// NewItemGroup returns a group with an empty item mapping. The title is
// truncated to MaxTitleLength characters.
func NewItemGroup(id, title, notes string, color Color) (ItemGroup, error) {
	g := ItemGroup{
		id:    id,
		title: truncateTitle(title),
		notes: notes,
		color: normalizeColor(color),
	}
	if err := g.Validate(); err != nil {
		return ItemGroup{}, err
	}
	return g, nil
}

// EntityID returns the group identifier.
func (g ItemGroup) EntityID() string { return g.id }

// Kind returns KindItemGroup.
func (g ItemGroup) Kind() Kind { return KindItemGroup }

func (g ItemGroup) ID() string    { return g.id }
func (g ItemGroup) Title() string { return g.title }
func (g ItemGroup) Notes() string { return g.notes }
func (g ItemGroup) Color() Color  { return g.color }

// Validate checks the id.
func (g ItemGroup) Validate() error { return requireID(KindItemGroup, g.id) }

// Equal compares identity only; differing scalars still compare equal.
func (g ItemGroup) Equal(other ItemGroup) bool { return g.id == other.id }

// AddItem returns a copy containing item. Adding an id that is already
// present replaces the value and keeps its original position.
func (g ItemGroup) AddItem(item ChecklistItem) ItemGroup {
	out := g.copyItems()
	if _, ok := out.items[item.id]; !ok {
		out.order = append(out.order, item.id)
	}
	out.items[item.id] = item
	return out
}

// RemoveItem returns a copy without the item. Unknown ids are ignored.
func (g ItemGroup) RemoveItem(id string) ItemGroup {
	if _, ok := g.items[id]; !ok {
		return g
	}
	out := g.copyItems()
	delete(out.items, id)
	for i, existing := range out.order {
		if existing == id {
			out.order = append(out.order[:i], out.order[i+1:]...)
			break
		}
	}
	return out
}

// UpdateTitle returns a copy with the title replaced and truncated.
func (g ItemGroup) UpdateTitle(title string) ItemGroup {
	g.title = truncateTitle(title)
	return g
}

// UpdateNotes returns a copy with the notes replaced.
func (g ItemGroup) UpdateNotes(notes string) ItemGroup {
	g.notes = notes
	return g
}

// SetColor returns a copy with a clamped color set.
func (g ItemGroup) SetColor(red, green, blue float64) ItemGroup {
	g.color = NewColor(red, green, blue)
	return g
}

// ClearColor returns a copy without a color.
func (g ItemGroup) ClearColor() ItemGroup {
	g.color = NoColor()
	return g
}

// ContainsItem reports whether the group holds the item.
func (g ItemGroup) ContainsItem(id string) bool {
	_, ok := g.items[id]
	return ok
}

// ItemIDs returns member ids in insertion order.
func (g ItemGroup) ItemIDs() []string {
	return append([]string(nil), g.order...)
}

// Item returns the member value with the given id.
func (g ItemGroup) Item(id string) (ChecklistItem, bool) {
	item, ok := g.items[id]
	return item, ok
}

// Len returns the number of member items.
func (g ItemGroup) Len() int { return len(g.order) }

// GetAllItems returns member items sorted by date ascending. Items with
// equal dates keep their insertion order.
func (g ItemGroup) GetAllItems() []ChecklistItem {
	out := make([]ChecklistItem, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.items[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].date.Before(out[j].date)
	})
	return out
}

func (g ItemGroup) copyItems() ItemGroup {
	items := make(map[string]ChecklistItem, len(g.items)+1)
	for k, v := range g.items {
		items[k] = v
	}
	g.items = items
	g.order = append([]string(nil), g.order...)
	return g
}

// normalizeColor re-clamps colors built from a zero value or by another
// package, so stored channels always stay within range.
func normalizeColor(c Color) Color {
	if !c.set {
		return NoColor()
	}
	return NewColor(c.red, c.green, c.blue)
}
