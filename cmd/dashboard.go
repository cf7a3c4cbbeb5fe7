package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your study dashboard",
	Long:  `Fetch and display aggregate stats, recent sessions and per-topic progress.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}

		app.router.SetLoader(internal.SectionDashboard, app.dashboardLoader())

		ctx := context.Background()
		return internal.ShowPending(ctx, "Loading dashboard...", func() error {
			return app.router.Activate(ctx, internal.SectionDashboard)
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
