package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/services"
)

func newChatCmd() *cobra.Command {
	var chatbotURL string

	cmd := &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask the nutrition assistant one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("question is empty")
			}

			answer, err := services.NewChatbotClient(chatbotURL).Ask(cmd.Context(), query)
			if err != nil {
				slog.Warn("chatbot unavailable, using fallback", "error", err)
				answer = services.FallbackReply(query)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}

	cmd.Flags().StringVar(&chatbotURL, "chatbot-url", envDefault("CHATBOT_URL", config.DefaultChatbotURL), "chat service base URL")
	return cmd
}
