package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/daybook/internal/app"
	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/snapshot"
)

func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Snapshot checklists into reports",
	}

	var (
		date     string
		analysis snapshot.Analysis
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Snapshot the checklist of a day",
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
			report, err := snapshot.NewEngine(e.graph).Create(cmd.Context(), checklist.ID, analysis)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		}),
	}
	create.Flags().StringVar(&date, "date", "", "Day of the checklist, YYYY-MM-DD (default today)")
	create.Flags().StringVar(&analysis.Summary, "summary", "", "Report summary")
	create.Flags().StringVar(&analysis.Analysis, "analysis", "", "Report analysis")
	create.Flags().StringVar(&analysis.Response, "response", "", "Assistant response")

	list := &cobra.Command{
		Use:   "list",
		Short: "List reports by date",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			reports, err := snapshot.NewEngine(e.graph).List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range reports {
				fmt.Fprintf(out, "%s  %s  %d/%d done\n", r.ID, r.Date.Format(time.DateOnly), r.CompletedCount(), len(r.Items))
			}
			return nil
		}),
	}

	var output string
	show := &cobra.Command{
		Use:   "show REPORT_ID",
		Short: "Print a report",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			report, err := snapshot.NewEngine(e.graph).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			switch output {
			case "text":
				printReport(cmd.OutOrStdout(), report)
				return nil
			case "yaml":
				return writeReportYAML(cmd.OutOrStdout(), report)
			default:
				return fmt.Errorf("unknown output %q, want text or yaml", output)
			}
		}),
	}
	show.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, yaml)")

	remove := &cobra.Command{
		Use:   "rm REPORT_ID",
		Short: "Delete a report",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			return snapshot.NewEngine(e.graph).Delete(cmd.Context(), args[0])
		}),
	}

	cmd.AddCommand(create, list, show, remove)
	return cmd
}

func printReport(out io.Writer, r model.Report) {
	fmt.Fprintf(out, "Report %s for %s\n", r.ID, r.Date.Format(time.DateOnly))
	for _, item := range r.Items {
		fmt.Fprintf(out, "  %s %s\n", mark(item.IsCompleted), item.Title)
		for _, sub := range item.SubItems {
			fmt.Fprintf(out, "      - %s\n", sub.Title)
		}
	}
	for _, section := range []struct{ name, text string }{
		{"Summary", r.Summary},
		{"Analysis", r.Analysis},
		{"Response", r.Response},
	} {
		if section.text != "" {
			fmt.Fprintf(out, "%s: %s\n", section.name, section.text)
		}
	}
}

type reportDoc struct {
	ID       string    `yaml:"id"`
	Date     string    `yaml:"date"`
	Summary  string    `yaml:"summary,omitempty"`
	Analysis string    `yaml:"analysis,omitempty"`
	Response string    `yaml:"response,omitempty"`
	Items    []itemDoc `yaml:"items"`
}

type itemDoc struct {
	Title     string   `yaml:"title"`
	Completed bool     `yaml:"completed"`
	SubItems  []string `yaml:"sub_items,omitempty"`
}

func writeReportYAML(out io.Writer, r model.Report) error {
	doc := reportDoc{
		ID:       r.ID,
		Date:     r.Date.Format(time.DateOnly),
		Summary:  r.Summary,
		Analysis: r.Analysis,
		Response: r.Response,
		Items:    make([]itemDoc, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		d := itemDoc{Title: item.Title, Completed: item.IsCompleted}
		for _, sub := range item.SubItems {
			d.SubItems = append(d.SubItems, sub.Title)
		}
		doc.Items = append(doc.Items, d)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding report %s: %w", r.ID, err)
	}
	return enc.Close()
}
