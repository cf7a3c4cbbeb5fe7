package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var (
	questionText       string
	questionAnswer     string
	questionDifficulty string
	questionTopic      string
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Manage the active study session",
	Long: `Manage the active study session.

A session survives across invocations: start one, add questions as you
study, then end it to get your score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}

		fmt.Print(internal.RenderSessionSummary(app.store.Session(), 0))
		return nil
	},
}

var studyStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new study session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}
		if app.store.Session() != nil {
			return fmt.Errorf("a session is already active; end it first with `studyctl study end`")
		}

		flow := internal.NewStudyFlow(app.store, app.client, app.router)

		ctx := context.Background()
		var sess *internal.StudySession
		err = internal.ShowPending(ctx, "Starting session...", func() error {
			var reqErr error
			sess, reqErr = flow.CreateSession(ctx)
			return reqErr
		})
		if err != nil {
			internal.PrintError(internal.UserMessage(err, "Failed to start session"))
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Study session #%d started", sess.ID))
		return nil
	},
}

var studyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question to the active session",
	Long: `Add a question to the active session.

Question and answer are required; difficulty defaults to medium.
Missing flags are prompted for interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}
		if app.store.Session() == nil {
			return internal.ErrNoActiveSession
		}

		text := questionText
		if text == "" {
			if text, err = promptLine("Question"); err != nil {
				return err
			}
		}
		answer := questionAnswer
		if answer == "" {
			if answer, err = promptLine("Answer"); err != nil {
				return err
			}
		}

		flow := internal.NewStudyFlow(app.store, app.client, app.router)

		ctx := context.Background()
		var count int
		err = internal.ShowPending(ctx, "Adding question...", func() error {
			var reqErr error
			count, reqErr = flow.AddQuestion(ctx, text, answer,
				internal.ParseDifficulty(questionDifficulty), questionTopic)
			return reqErr
		})
		if err != nil {
			var valErr *internal.ValidationError
			if errors.As(err, &valErr) {
				internal.PrintError("Please fill in the question and the answer")
				return err
			}
			internal.PrintError(internal.UserMessage(err, "Failed to add question"))
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("%d question(s) added", count))
		return nil
	},
}

var studyEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active session and show the score",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}

		flow := internal.NewStudyFlow(app.store, app.client, app.router)
		flow.SetDashboardRefresh(func(ctx context.Context) error {
			data, err := app.client.Dashboard(ctx)
			if err != nil {
				return err
			}
			fmt.Print(internal.RenderDashboard(data))
			return nil
		})

		ctx := context.Background()
		var ended *internal.StudySession
		err = internal.ShowPending(ctx, "Ending session...", func() error {
			var reqErr error
			ended, reqErr = flow.EndSession(ctx)
			return reqErr
		})
		if err != nil {
			internal.PrintError(internal.UserMessage(err, "Failed to end session"))
			return err
		}
		if ended == nil {
			internal.PrintInfo("No active session")
			return nil
		}

		internal.PrintSuccess(internal.RenderFinalScore(ended))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.AddCommand(studyStartCmd)
	studyCmd.AddCommand(studyAddCmd)
	studyCmd.AddCommand(studyEndCmd)

	studyAddCmd.Flags().StringVarP(&questionText, "question", "q", "", "Question text")
	studyAddCmd.Flags().StringVarP(&questionAnswer, "answer", "a", "", "Correct answer")
	studyAddCmd.Flags().StringVarP(&questionDifficulty, "difficulty", "d", "medium", "Difficulty (easy|medium|hard)")
	studyAddCmd.Flags().StringVarP(&questionTopic, "topic", "t", "", "Topic, e.g. math")
}
