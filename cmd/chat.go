package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the AI study assistant",
	Long: `Chat with the AI study assistant.

With a message argument a single exchange is performed. Without one an
interactive chat opens; type /quit to leave. Each answer shows which
backend AI service produced it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}

		flow := internal.NewChatFlow(app.client)

		if len(args) > 0 {
			return chatSend(flow, strings.Join(args, " "))
		}
		return chatInteractive(flow)
	},
}

// chatSend performs one exchange and prints both transcript entries.
// The flow appends the fallback ai entry itself on failure, so the
// transcript is printed either way.
func chatSend(flow *internal.ChatFlow, message string) error {
	ctx := context.Background()

	before := len(flow.Transcript())
	_ = internal.ShowPending(ctx, "Assistant is typing...", func() error {
		_, err := flow.Send(ctx, message)
		return err
	})

	for _, entry := range flow.Transcript()[before:] {
		fmt.Print(internal.RenderTranscriptEntry(entry))
	}
	return nil
}

func chatInteractive(flow *internal.ChatFlow) error {
	internal.PrintInfo("Chatting with the study assistant. Type /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" || line == "/exit" {
			return nil
		}
		if line == "" {
			continue
		}
		if err := chatSend(flow, line); err != nil {
			return err
		}
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
