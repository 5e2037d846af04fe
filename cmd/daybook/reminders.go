package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/daybook/internal/app"
	"github.com/nhle/daybook/internal/reminder"
)

// logScheduler stands in for a platform notification service.
type logScheduler struct{}

func (logScheduler) Schedule(_ context.Context, r reminder.Reminder) error {
	log.WithFields(log.Fields{"item": r.ItemID, "at": r.At.Local().Format(time.RFC3339)}).Info(r.Title)
	return nil
}

func (logScheduler) Cancel(_ context.Context, itemID string) error {
	log.WithField("item", itemID).Debug("cancel reminder")
	return nil
}

func NewRemindersCommand() *cobra.Command {
	var (
		date string
		sync bool
	)

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List upcoming item notifications",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			checklist, err := app.NewService(e.graph).ChecklistFor(cmd.Context(), day)
			if err != nil {
				return err
			}

			planner := reminder.NewPlanner(e.graph)
			now := time.Now()
			if sync {
				res, err := planner.Sync(cmd.Context(), checklist.ID, logScheduler{}, now)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "scheduled %d, cancelled %d\n", res.Scheduled, res.Cancelled)
				return nil
			}

			lookahead := time.Duration(e.cfg.Reminders.LookaheadHours) * time.Hour
			pending, err := planner.Pending(cmd.Context(), checklist.ID, now, lookahead)
			if err != nil {
				return err
			}
			for _, r := range pending {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", r.At.Local().Format("15:04"), r.Title)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "Day of the checklist, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&sync, "sync", false, "Hand every reminder to the scheduler")
	return cmd
}
