package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the study platform",
	Long: `Sign in with your platform credentials.

The auth token is stored in the local state database so later commands
stay authenticated. On success the dashboard is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		return runLogin(app)
	},
}

// runLogin prompts for any missing credentials and drives the login
// flow. Shared with register's follow-up prompt and the ui shell.
func runLogin(app *appContext) error {
	username := loginUsername
	if username == "" {
		var err error
		username, err = promptLine("Username")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}

	app.router.SetLoader(internal.SectionDashboard, app.dashboardLoader())
	flow := internal.NewAuthFlow(app.store, app.client, app.router)

	ctx := context.Background()
	var user *internal.User
	err = internal.ShowPending(ctx, "Signing in...", func() error {
		var loginErr error
		user, loginErr = flow.Login(ctx, username, password)
		return loginErr
	})
	if err != nil {
		var valErr *internal.ValidationError
		if errors.As(err, &valErr) {
			internal.PrintError("Please fill in all required fields")
			return err
		}
		internal.PrintError(internal.UserMessage(err, internal.LoginFailedMessage))
		return err
	}

	internal.PrintSuccess(fmt.Sprintf("Logged in as %s", user.Username))
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username to sign in with")
}
