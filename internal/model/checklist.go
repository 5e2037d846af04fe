package model

import "time"

// Checklist is the per-day container of checklist items.
// Items are read through the synchronizer, not embedded.
type Checklist struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Notes string    `json:"notes"`
}

// NewChecklist returns a validated checklist value.
func NewChecklist(id string, date time.Time, notes string) (Checklist, error) {
	c := Checklist{ID: id, Date: date, Notes: notes}
	if err := c.Validate(); err != nil {
		return Checklist{}, err
	}
	return c, nil
}

// EntityID returns the checklist identifier.
func (c Checklist) EntityID() string { return c.ID }

// Kind returns KindChecklist.
func (c Checklist) Kind() Kind { return KindChecklist }

// Validate checks that the checklist has an id and a date.
func (c Checklist) Validate() error {
	if err := requireID(KindChecklist, c.ID); err != nil {
		return err
	}
	if c.Date.IsZero() {
		return &ValidationError{Kind: KindChecklist, Field: "date", Reason: "is required"}
	}
	return nil
}

// Equal reports whether both values mirror the same entity.
func (c Checklist) Equal(other Checklist) bool { return c.ID == other.ID }

// ChecklistItem is a single entry of a checklist. It carries no reference
// to its checklist or group; those are looked up by id in the graph.
type ChecklistItem struct {
	id              string
	title           string
	date            time.Time
	completed       bool
	notification    time.Time
	hasNotification bool
}

// NewChecklistItem returns an open item with its title truncated to
// MaxTitleLength characters.
func NewChecklistItem(id, title string, date time.Time) (ChecklistItem, error) {
	item := ChecklistItem{id: id, title: truncateTitle(title), date: date}
	if err := item.Validate(); err != nil {
		return ChecklistItem{}, err
	}
	return item, nil
}

// EntityID returns the item identifier.
func (i ChecklistItem) EntityID() string { return i.id }

// Kind returns KindChecklistItem.
func (i ChecklistItem) Kind() Kind { return KindChecklistItem }

// ID returns the item identifier.
func (i ChecklistItem) ID() string { return i.id }

// Title returns the item title.
func (i ChecklistItem) Title() string { return i.title }

// Date returns the item date.
func (i ChecklistItem) Date() time.Time { return i.date }

// IsCompleted reports whether the item is checked off.
func (i ChecklistItem) IsCompleted() bool { return i.completed }

// Notification returns the reminder time, if any.
func (i ChecklistItem) Notification() (time.Time, bool) {
	return i.notification, i.hasNotification
}

// WithTitle returns a copy with the title replaced and truncated.
func (i ChecklistItem) WithTitle(title string) ChecklistItem {
	i.title = truncateTitle(title)
	return i
}

// WithDate returns a copy with the date replaced.
func (i ChecklistItem) WithDate(date time.Time) ChecklistItem {
	i.date = date
	return i
}

// WithCompleted returns a copy with the completion flag replaced.
func (i ChecklistItem) WithCompleted(done bool) ChecklistItem {
	i.completed = done
	return i
}

// WithNotification returns a copy that reminds at the given time.
func (i ChecklistItem) WithNotification(at time.Time) ChecklistItem {
	i.notification = at
	i.hasNotification = true
	return i
}

// WithoutNotification returns a copy with the reminder cleared.
func (i ChecklistItem) WithoutNotification() ChecklistItem {
	i.notification = time.Time{}
	i.hasNotification = false
	return i
}

// Validate checks the id and date.
func (i ChecklistItem) Validate() error {
	if err := requireID(KindChecklistItem, i.id); err != nil {
		return err
	}
	if i.date.IsZero() {
		return &ValidationError{Kind: KindChecklistItem, Field: "date", Reason: "is required"}
	}
	return nil
}

// Equal reports whether both values mirror the same entity.
func (i ChecklistItem) Equal(other ChecklistItem) bool { return i.id == other.id }

// SubItem is a nested step of a checklist item.
type SubItem struct {
	id        string
	title     string
	completed bool
}

// NewSubItem returns an open sub-item with its title truncated.
func NewSubItem(id, title string) (SubItem, error) {
	s := SubItem{id: id, title: truncateTitle(title)}
	if err := s.Validate(); err != nil {
		return SubItem{}, err
	}
	return s, nil
}

// EntityID returns the sub-item identifier.
func (s SubItem) EntityID() string { return s.id }

// Kind returns KindSubItem.
func (s SubItem) Kind() Kind { return KindSubItem }

func (s SubItem) ID() string        { return s.id }
func (s SubItem) Title() string     { return s.title }
func (s SubItem) IsCompleted() bool { return s.completed }

// WithTitle returns a copy with the title replaced and truncated.
func (s SubItem) WithTitle(title string) SubItem {
	s.title = truncateTitle(title)
	return s
}

// WithCompleted returns a copy with the completion flag replaced.
func (s SubItem) WithCompleted(done bool) SubItem {
	s.completed = done
	return s
}

// Validate checks the id.
func (s SubItem) Validate() error { return requireID(KindSubItem, s.id) }

// Equal reports whether both values mirror the same entity.
func (s SubItem) Equal(other SubItem) bool { return s.id == other.id }
