package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aide-studio/engine/internal/client"
	"github.com/aide-studio/engine/internal/models"
)

var chatMode string

var chatCMD = &cobra.Command{
	Use:   "chat",
	Short: "read and write per-mode chat history",
}

// openChat selects the project and the mode flag on a fresh syncer.
func openChat(ctx context.Context, projectID string) (*client.Syncer, error) {
	s := newSyncer()
	if err := s.SwitchMode(ctx, models.Mode(chatMode)); err != nil {
		return nil, err
	}
	if err := s.SelectProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s, nil
}

var chatHistoryCMD = &cobra.Command{
	Use:   "history PROJECT_ID",
	Short: "print the conversation for a project and mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s, err := openChat(ctx, args[0])
		if err != nil {
			return err
		}
		msgs := s.Mirror().Snapshot().ChatMessages
		if jsonOutput {
			return printJSON(out(cmd), msgs)
		}
		for _, m := range msgs {
			fmt.Fprintf(out(cmd), "[%s] %s: %s\n", stamp(m.CreatedAt), m.Role, m.Content)
		}
		return nil
	},
}

var chatAsk bool

var chatSendCMD = &cobra.Command{
	Use:   "send PROJECT_ID MESSAGE",
	Short: "append a user message, optionally asking the connector for a reply",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s, err := openChat(ctx, args[0])
		if err != nil {
			return err
		}
		var m models.ChatMessage
		if chatAsk {
			m, err = s.Ask(ctx, args[1])
		} else {
			m, err = s.SendMessage(ctx, args[1])
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), m)
		}
		fmt.Fprintf(out(cmd), "%s: %s\n", m.Role, m.Content)
		return nil
	},
}

func init() {
	chatCMD.PersistentFlags().StringVar(&chatMode, "mode", string(models.ModePlanner), "workflow mode")
	chatSendCMD.Flags().BoolVar(&chatAsk, "ask", false, "send the conversation to OpenRouter and store the reply")

	chatCMD.AddCommand(chatHistoryCMD, chatSendCMD)
}
