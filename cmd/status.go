package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend AI service availability",
	Long: `Query which of the backend's AI services are currently available.
This endpoint needs no authentication.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := context.Background()
		var services map[string]internal.AIServiceInfo
		err = internal.ShowPending(ctx, "Checking AI services...", func() error {
			var reqErr error
			services, reqErr = app.client.AIStatus(ctx)
			return reqErr
		})
		if err != nil {
			internal.PrintError(internal.UserMessage(err, "Failed to fetch AI service status"))
			return err
		}

		fmt.Print(internal.RenderAIStatus(services))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
