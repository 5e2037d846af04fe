// Package snapshot builds reports: detached deep copies of a checklist's
// item tree that stay readable after the checklist is edited or deleted.
package snapshot

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/syncer"
)

// Analysis is the text attached to a report, typically produced by the
// assistant for the day's checklist.
type Analysis struct {
	Summary  string
	Analysis string
	Response string
}

// Engine creates and manages reports.
type Engine struct {
	graph *graph.Store
	newID func() string
	log   *log.Entry
}

// NewEngine returns an engine over g.
func NewEngine(g *graph.Store) *Engine {
	return &Engine{
		graph: g,
		newID: model.NewID,
		log:   log.WithField("component", "snapshot"),
	}
}

// Create copies the current items and sub-items of a checklist into a new
// report. Every copy gets a fresh identifier and the source nodes are only
// read. The report subtree is committed as a single unit of work.
func (e *Engine) Create(ctx context.Context, checklistID string, a Analysis) (model.Report, error) {
	var report model.Report
	err := e.graph.Update(ctx, func(tx *graph.Tx) error {
		checklist, err := syncer.ExtractTxAs[model.Checklist](tx, checklistID)
		if err != nil {
			return err
		}

		report, err = model.NewReport(e.newID(), checklist.Date, a.Summary, a.Analysis, a.Response)
		if err != nil {
			return err
		}
		if _, err := syncer.MaterializeTx(tx, report); err != nil {
			return err
		}

		items, err := syncer.ChildrenTxAs[model.ChecklistItem](tx, checklistID, graph.RelChecklistItems)
		if err != nil {
			return err
		}
		for _, item := range items {
			copied, err := e.copyItem(tx, report.ID, item)
			if err != nil {
				return fmt.Errorf("copying item %s: %w", item.ID(), err)
			}
			report.Items = append(report.Items, copied)
		}
		return nil
	})
	if err != nil {
		return model.Report{}, fmt.Errorf("creating report for checklist %s: %w", checklistID, err)
	}

	e.log.WithFields(log.Fields{"report": report.ID, "checklist": checklistID, "items": len(report.Items)}).Debug("report created")
	return report, nil
}

func (e *Engine) copyItem(tx *graph.Tx, reportID string, item model.ChecklistItem) (model.SnapshotItem, error) {
	snap, err := model.NewSnapshotItem(e.newID(), item.Title(), item.IsCompleted())
	if err != nil {
		return model.SnapshotItem{}, err
	}
	if _, err := syncer.MaterializeTx(tx, snap); err != nil {
		return model.SnapshotItem{}, err
	}
	if err := tx.Attach(reportID, snap.ID, graph.RelReportItems, -1); err != nil {
		return model.SnapshotItem{}, err
	}

	subs, err := syncer.ChildrenTxAs[model.SubItem](tx, item.ID(), graph.RelItemSubItems)
	if err != nil {
		return model.SnapshotItem{}, err
	}
	for _, sub := range subs {
		copied, err := model.NewSnapshotSubItem(e.newID(), sub.Title())
		if err != nil {
			return model.SnapshotItem{}, err
		}
		if _, err := syncer.MaterializeTx(tx, copied); err != nil {
			return model.SnapshotItem{}, err
		}
		if err := tx.Attach(snap.ID, copied.ID, graph.RelSnapshotItemSubItems, -1); err != nil {
			return model.SnapshotItem{}, err
		}
		snap.SubItems = append(snap.SubItems, copied)
	}
	return snap, nil
}

// Get returns a report with its full snapshot tree.
func (e *Engine) Get(ctx context.Context, reportID string) (model.Report, error) {
	var report model.Report
	err := e.graph.View(ctx, func(r graph.Reader) error {
		var err error
		report, err = syncer.ExtractTxAs[model.Report](r, reportID)
		return err
	})
	return report, err
}

// List returns every report ordered by date, oldest first. Reports sharing
// a date keep their creation order.
func (e *Engine) List(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := e.graph.View(ctx, func(r graph.Reader) error {
		for _, n := range r.Nodes(model.KindReport) {
			report, err := syncer.ExtractTxAs[model.Report](r, n.ID)
			if err != nil {
				return err
			}
			reports = append(reports, report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].Date.Before(reports[j].Date) })
	return reports, nil
}

// Delete removes a report and its snapshot subtree.
func (e *Engine) Delete(ctx context.Context, reportID string) error {
	return e.graph.Update(ctx, func(tx *graph.Tx) error {
		n, ok := tx.Node(reportID)
		if !ok {
			return fmt.Errorf("deleting report %s: %w", reportID, model.ErrNotFound)
		}
		if n.Kind != model.KindReport {
			return &model.ValidationError{Kind: n.Kind, Reason: fmt.Sprintf("%s is not a report", reportID)}
		}
		return tx.Delete(reportID)
	})
}
