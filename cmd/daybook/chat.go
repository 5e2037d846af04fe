package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/daybook/internal/chat"
	"github.com/nhle/daybook/internal/model"
)

func NewChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read and append to the main chat history",
	}

	var role string
	say := &cobra.Command{
		Use:   "say TEXT...",
		Short: "Append a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			j := chat.NewJournal(e.graph, e.cfg.Chat.MaxMessages)
			_, err := j.Append(cmd.Context(), model.Role(role), strings.Join(args, " "))
			return err
		}),
	}
	say.Flags().StringVar(&role, "role", string(model.RoleUser), "Sender role (user, assistant, system)")

	show := &cobra.Command{
		Use:   "log",
		Short: "Print the history",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			msgs, err := chat.NewJournal(e.graph, e.cfg.Chat.MaxMessages).Messages(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-9s %s\n", m.Timestamp.Local().Format(time.DateTime), m.Role, m.Content)
			}
			return nil
		}),
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Delete every message",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			return chat.NewJournal(e.graph, e.cfg.Chat.MaxMessages).Reset(cmd.Context())
		}),
	}

	cmd.AddCommand(say, show, reset)
	return cmd
}
