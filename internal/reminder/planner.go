// Package reminder hands item notifications to an external scheduler. It
// only reads the graph.
package reminder

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/syncer"
)

// Reminder is a notification due for a checklist item.
type Reminder struct {
	ItemID string
	Title  string
	At     time.Time
}

// Scheduler delivers reminders. Implementations must treat Schedule for an
// already scheduled item as a replacement and Cancel for an unknown item as
// a no-op.
type Scheduler interface {
	Schedule(ctx context.Context, r Reminder) error
	Cancel(ctx context.Context, itemID string) error
}

// SyncResult counts the scheduler calls made by Sync.
type SyncResult struct {
	Scheduled int
	Cancelled int
}

// Planner derives reminders from checklist items.
type Planner struct {
	sync *syncer.Synchronizer
	log  *log.Entry
}

// NewPlanner returns a planner reading g.
func NewPlanner(g *graph.Store) *Planner {
	return &Planner{sync: syncer.New(g), log: log.WithField("component", "reminder")}
}

// Pending returns the reminders of open items of a checklist due after now
// and no later than now+lookahead, soonest first. A non-positive lookahead
// has no upper bound.
func (p *Planner) Pending(ctx context.Context, checklistID string, now time.Time, lookahead time.Duration) ([]Reminder, error) {
	items, err := p.sync.ChecklistItems(ctx, checklistID)
	if err != nil {
		return nil, fmt.Errorf("listing reminders for %s: %w", checklistID, err)
	}

	var out []Reminder
	for _, item := range items {
		at, ok := item.Notification()
		if !ok || item.IsCompleted() || !at.After(now) {
			continue
		}
		if lookahead > 0 && at.After(now.Add(lookahead)) {
			continue
		}
		out = append(out, Reminder{ItemID: item.ID(), Title: item.Title(), At: at})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

// Sync schedules every future reminder of a checklist and cancels the
// reminders of items that are completed, past due or have none.
func (p *Planner) Sync(ctx context.Context, checklistID string, s Scheduler, now time.Time) (SyncResult, error) {
	var res SyncResult
	items, err := p.sync.ChecklistItems(ctx, checklistID)
	if err != nil {
		return res, fmt.Errorf("syncing reminders for %s: %w", checklistID, err)
	}

	for _, item := range items {
		at, ok := item.Notification()
		if ok && !item.IsCompleted() && at.After(now) {
			if err := s.Schedule(ctx, Reminder{ItemID: item.ID(), Title: item.Title(), At: at}); err != nil {
				return res, fmt.Errorf("scheduling reminder for %s: %w", item.ID(), err)
			}
			res.Scheduled++
			continue
		}
		if err := s.Cancel(ctx, item.ID()); err != nil {
			return res, fmt.Errorf("cancelling reminder for %s: %w", item.ID(), err)
		}
		res.Cancelled++
	}

	p.log.WithFields(log.Fields{"checklist": checklistID, "scheduled": res.Scheduled, "cancelled": res.Cancelled}).Debug("synced reminders")
	return res, nil
}
