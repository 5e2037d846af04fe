package model

import "time"

// Report is a detached point-in-time copy of a checklist together with the
// analysis produced for it. Its items are owned copies, never aliases of
// live checklist entries.
type Report struct {
	ID       string         `json:"id"`
	Date     time.Time      `json:"date"`
	Summary  string         `json:"summary"`
	Analysis string         `json:"analysis"`
	Response string         `json:"response"`
	Items    []SnapshotItem `json:"items,omitempty"`
}

// NewReport returns a validated report without items.
func NewReport(id string, date time.Time, summary, analysis, response string) (Report, error) {
	r := Report{ID: id, Date: date, Summary: summary, Analysis: analysis, Response: response}
	if err := r.Validate(); err != nil {
		return Report{}, err
	}
	return r, nil
}

// EntityID returns the report identifier.
func (r Report) EntityID() string { return r.ID }

// Kind returns KindReport.
func (r Report) Kind() Kind { return KindReport }

// Validate checks the id, the date and every owned item.
func (r Report) Validate() error {
	if err := requireID(KindReport, r.ID); err != nil {
		return err
	}
	if r.Date.IsZero() {
		return &ValidationError{Kind: KindReport, Field: "date", Reason: "is required"}
	}
	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether both values mirror the same entity.
func (r Report) Equal(other Report) bool { return r.ID == other.ID }

// CompletedCount returns how many snapshot items were completed.
func (r Report) CompletedCount() int {
	n := 0
	for _, item := range r.Items {
		if item.IsCompleted {
			n++
		}
	}
	return n
}

// SnapshotItem is the copy of one checklist item inside a report.
type SnapshotItem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	IsCompleted bool              `json:"is_completed"`
	SubItems    []SnapshotSubItem `json:"sub_items,omitempty"`
}

// NewSnapshotItem returns a snapshot item with its title truncated to
// MaxTitleLength characters.
func NewSnapshotItem(id, title string, completed bool) (SnapshotItem, error) {
	s := SnapshotItem{ID: id, Title: truncateTitle(title), IsCompleted: completed}
	if err := s.Validate(); err != nil {
		return SnapshotItem{}, err
	}
	return s, nil
}

// EntityID returns the snapshot item identifier.
func (s SnapshotItem) EntityID() string { return s.ID }

// Kind returns KindSnapshotItem.
func (s SnapshotItem) Kind() Kind { return KindSnapshotItem }

// Validate checks the id, the title length and every sub-item.
func (s SnapshotItem) Validate() error {
	if err := requireID(KindSnapshotItem, s.ID); err != nil {
		return err
	}
	if err := checkTitle(KindSnapshotItem, s.Title); err != nil {
		return err
	}
	for _, sub := range s.SubItems {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether both values mirror the same entity.
func (s SnapshotItem) Equal(other SnapshotItem) bool { return s.ID == other.ID }

// SnapshotSubItem is the copy of one sub-item inside a report.
type SnapshotSubItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewSnapshotSubItem returns a snapshot sub-item with its title truncated.
func NewSnapshotSubItem(id, title string) (SnapshotSubItem, error) {
	s := SnapshotSubItem{ID: id, Title: truncateTitle(title)}
	if err := s.Validate(); err != nil {
		return SnapshotSubItem{}, err
	}
	return s, nil
}

// EntityID returns the snapshot sub-item identifier.
func (s SnapshotSubItem) EntityID() string { return s.ID }

// Kind returns KindSnapshotSubItem.
func (s SnapshotSubItem) Kind() Kind { return KindSnapshotSubItem }

// Validate checks the id and the title length.
func (s SnapshotSubItem) Validate() error {
	if err := requireID(KindSnapshotSubItem, s.ID); err != nil {
		return err
	}
	return checkTitle(KindSnapshotSubItem, s.Title)
}

// Equal reports whether both values mirror the same entity.
func (s SnapshotSubItem) Equal(other SnapshotSubItem) bool { return s.ID == other.ID }
