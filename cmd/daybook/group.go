package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/daybook/internal/app"
	"github.com/nhle/daybook/internal/model"
)

func NewGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage item groups",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print groups in rank order with their items",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			groups, err := app.NewService(e.graph).Groups(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, g := range groups {
				fmt.Fprintf(out, "%s  %s\n", g.ID(), g.Title())
				for _, item := range g.GetAllItems() {
					printItem(out, item)
				}
			}
			return nil
		}),
	}

	var notes string
	var rgb []float64
	create := &cobra.Command{
		Use:   "create TITLE",
		Short: "Create a group ranked last",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			color := model.NoColor()
			switch len(rgb) {
			case 0:
			case 3:
				color = model.NewColor(rgb[0], rgb[1], rgb[2])
			default:
				return fmt.Errorf("--rgb takes three values, got %d", len(rgb))
			}
			g, err := app.NewService(e.graph).CreateGroup(cmd.Context(), args[0], notes, color)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.ID())
			return nil
		}),
	}
	create.Flags().StringVar(&notes, "notes", "", "Group notes")
	create.Flags().Float64SliceVar(&rgb, "rgb", nil, "Color as three values in [0,1]")

	assign := &cobra.Command{
		Use:   "assign GROUP_ID ITEM_ID",
		Short: "Move an item into a group",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			return app.NewService(e.graph).AssignToGroup(cmd.Context(), args[0], args[1])
		}),
	}

	unassign := &cobra.Command{
		Use:   "unassign GROUP_ID ITEM_ID",
		Short: "Take an item out of a group",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			return app.NewService(e.graph).RemoveFromGroup(cmd.Context(), args[0], args[1])
		}),
	}

	rank := &cobra.Command{
		Use:   "rank GROUP_ID...",
		Short: "Set the group order; every group must be listed once",
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			return app.NewService(e.graph).RankGroups(cmd.Context(), args)
		}),
	}

	remove := &cobra.Command{
		Use:   "rm GROUP_ID",
		Short: "Delete a group; its items stay in their checklists",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			return app.NewService(e.graph).DeleteGroup(cmd.Context(), args[0])
		}),
	}

	cmd.AddCommand(list, create, assign, unassign, rank, remove)
	return cmd
}
