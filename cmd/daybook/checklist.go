package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/daybook/internal/app"
	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/syncer"
)

func NewChecklistCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Show and edit the checklist of a day",
	}
	cmd.PersistentFlags().StringVar(&date, "date", "", "Day of the checklist, YYYY-MM-DD (default today)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the checklist with its sub-items",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			svc := app.NewService(e.graph)
			checklist, err := svc.ChecklistFor(cmd.Context(), day)
			if err != nil {
				return err
			}
			items, err := svc.Items(cmd.Context(), checklist.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checklist %s\n", checklist.Date.Format(time.DateOnly))
			sync := syncer.New(e.graph)
			for _, item := range items {
				printItem(out, item)
				subs, err := sync.SubItems(cmd.Context(), item.ID())
				if err != nil {
					return err
				}
				for _, sub := range subs {
					fmt.Fprintf(out, "      %s %s\n", mark(sub.IsCompleted()), sub.Title())
				}
			}
			return nil
		}),
	}

	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Append an item",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			svc := app.NewService(e.graph)
			checklist, err := svc.ChecklistFor(cmd.Context(), day)
			if err != nil {
				return err
			}
			item, err := svc.AddItem(cmd.Context(), checklist.ID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.ID())
			return nil
		}),
	}

	addSub := &cobra.Command{
		Use:   "add-sub ITEM_ID TITLE",
		Short: "Append a sub-item to an item",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			sub, err := app.NewService(e.graph).AddSubItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sub.ID())
			return nil
		}),
	}

	toggle := &cobra.Command{
		Use:   "toggle ITEM_ID",
		Short: "Flip an item between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			item, err := app.NewService(e.graph).ToggleItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printItem(cmd.OutOrStdout(), item)
			return nil
		}),
	}

	var at string
	remind := &cobra.Command{
		Use:   "remind ITEM_ID",
		Short: "Set or clear the notification time of an item",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			item, err := syncer.ExtractAs[model.ChecklistItem](cmd.Context(), syncer.New(e.graph), args[0])
			if err != nil {
				return err
			}
			if at == "" {
				item = item.WithoutNotification()
			} else {
				when, err := time.ParseInLocation("2006-01-02 15:04", at, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --at %q, want \"YYYY-MM-DD HH:MM\"", at)
				}
				item = item.WithNotification(when.UTC())
			}
			return app.NewService(e.graph).UpdateItem(cmd.Context(), item)
		}),
	}
	remind.Flags().StringVar(&at, "at", "", "Local notification time \"YYYY-MM-DD HH:MM\"; empty clears it")

	var to int
	move := &cobra.Command{
		Use:   "move ITEM_ID",
		Short: "Move an item to another position",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			svc := app.NewService(e.graph)
			checklist, err := svc.ChecklistFor(cmd.Context(), day)
			if err != nil {
				return err
			}
			return svc.MoveItem(cmd.Context(), checklist.ID, args[0], to)
		}),
	}
	move.Flags().IntVar(&to, "to", 0, "Zero-based target position")

	remove := &cobra.Command{
		Use:   "rm ITEM_ID",
		Short: "Delete an item and its sub-items",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			return app.NewService(e.graph).RemoveItem(cmd.Context(), args[0])
		}),
	}

	cmd.AddCommand(show, add, addSub, toggle, remind, move, remove)
	return cmd
}

func printItem(out io.Writer, item model.ChecklistItem) {
	line := fmt.Sprintf("  %s %s  (%s)", mark(item.IsCompleted()), item.Title(), item.ID())
	if at, ok := item.Notification(); ok {
		line += "  @ " + at.Local().Format("15:04")
	}
	fmt.Fprintln(out, line)
}

func mark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
