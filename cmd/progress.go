package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show your progress by topic",
	Long:  `Fetch per-topic scores and render them as a bar chart (0-100%).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}

		app.router.SetLoader(internal.SectionProgress, app.progressLoader())

		ctx := context.Background()
		return internal.ShowPending(ctx, "Loading progress...", func() error {
			return app.router.Activate(ctx, internal.SectionProgress)
		})
	},
}

var progressSetCmd = &cobra.Command{
	Use:   "set <topic> <score>",
	Short: "Record a score for a topic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}

		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil || score < 0 || score > 100 {
			return fmt.Errorf("score must be a number between 0 and 100")
		}

		ctx := context.Background()
		var updated *internal.TopicProgress
		err = internal.ShowPending(ctx, "Updating progress...", func() error {
			var reqErr error
			updated, reqErr = app.client.UpdateProgress(ctx, args[0], score)
			return reqErr
		})
		if err != nil {
			internal.PrintError(internal.UserMessage(err, "Failed to update progress"))
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("%s: %.0f%%", updated.Topic, updated.Score))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.AddCommand(progressSetCmd)
}
